package local

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ldv-klever/klever-sub005/scheduler/domain"
)

// capacity is what the host offers, or what is left of it.
type capacity struct {
	cores  int
	memory uint64
	disk   uint64
	model  string

	// disk is not accounted when no DiskSize is configured
	noDisk bool
}

func (c capacity) String() string {
	return fmt.Sprintf("cores:%d mem:%s disk:%s model:%s", c.cores, humanize.IBytes(c.memory), humanize.IBytes(c.disk), c.model)
}

func parseCapacity(cfg Config) (capacity, error) {
	c := capacity{cores: cfg.CPUCores, model: cfg.CPUModel}
	if c.cores < 0 {
		return capacity{}, fmt.Errorf("invalid CPUCores %d", cfg.CPUCores)
	}
	if c.cores == 0 {
		c.cores = runtime.NumCPU()
	}
	var err error
	if c.memory, err = humanize.ParseBytes(cfg.MemorySize); err != nil || c.memory == 0 {
		return capacity{}, fmt.Errorf("invalid MemorySize %q", cfg.MemorySize)
	}
	if cfg.DiskSize != "" {
		if c.disk, err = humanize.ParseBytes(cfg.DiskSize); err != nil {
			return capacity{}, fmt.Errorf("invalid DiskSize %q", cfg.DiskSize)
		}
	}
	c.noDisk = c.disk == 0
	if c.model == "" {
		c.model = domain.UnspecifiedCPUModel
	}
	return c, nil
}

// diagnose explains why limits can never be satisfied by the host, or returns "".
func (c capacity) diagnose(l domain.ResourceLimits) string {
	var problems []string
	if l.CPUCores > c.cores {
		problems = append(problems, fmt.Sprintf("%d CPU cores requested, host has %d", l.CPUCores, c.cores))
	}
	if l.MemorySize > c.memory {
		problems = append(problems, fmt.Sprintf("%s of memory requested, host has %s", humanize.IBytes(l.MemorySize), humanize.IBytes(c.memory)))
	}
	if !c.noDisk && l.DiskSize > c.disk {
		problems = append(problems, fmt.Sprintf("%s of disk requested, host has %s", humanize.IBytes(l.DiskSize), humanize.IBytes(c.disk)))
	}
	if l.HasCPUModel() && !strings.Contains(c.model, l.CPUModel) {
		problems = append(problems, fmt.Sprintf("CPU model %q requested, host has %q", l.CPUModel, c.model))
	}
	return strings.Join(problems, "; ")
}

func (c capacity) fits(l domain.ResourceLimits) bool {
	return l.CPUCores <= c.cores && l.MemorySize <= c.memory && (c.noDisk || l.DiskSize <= c.disk)
}

func (c *capacity) take(l domain.ResourceLimits) {
	c.cores -= l.CPUCores
	c.memory -= l.MemorySize
	if !c.noDisk {
		c.disk -= l.DiskSize
	}
}

func (c *capacity) give(l domain.ResourceLimits) {
	c.cores += l.CPUCores
	c.memory += l.MemorySize
	if !c.noDisk {
		c.disk += l.DiskSize
	}
}
