package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
)

// Limit names as they appear in configurations pulled from the coordination service.
const (
	MemorySizeField = "memory_size"
	CPUCoresField   = "cpu_cores"
	DiskSizeField   = "disk_size"
	CPUModelField   = "cpu_model"
	WallTimeField   = "wall_time"
	CPUTimeField    = "cpu_time"

	// CPU model of a limits record that does not ask for a particular model.
	UnspecifiedCPUModel = "unspecified"
)

// RawResourceLimits is a resource limits record as received: any field may be
// missing, numbers may be JSON numbers or human readable strings ("2GB", "10m").
type RawResourceLimits map[string]interface{}

// ResourceLimits is a fully specified record in canonical units:
// bytes for sizes and milliseconds for times.
type ResourceLimits struct {
	MemorySize uint64 `json:"memory_size"`
	CPUCores   int    `json:"cpu_cores"`
	DiskSize   uint64 `json:"disk_size"`
	CPUModel   string `json:"cpu_model"`
	WallTime   int64  `json:"wall_time"`
	CPUTime    int64  `json:"cpu_time"`
}

func (l ResourceLimits) String() string {
	return fmt.Sprintf("mem:%s cores:%d disk:%s model:%s wall:%dms cpu:%dms",
		humanize.IBytes(l.MemorySize), l.CPUCores, humanize.IBytes(l.DiskSize), l.CPUModel, l.WallTime, l.CPUTime)
}

// Raw renders the record back into the raw form. Normalizing the result yields the same record.
func (l ResourceLimits) Raw() RawResourceLimits {
	return RawResourceLimits{
		MemorySizeField: l.MemorySize,
		CPUCoresField:   l.CPUCores,
		DiskSizeField:   l.DiskSize,
		CPUModelField:   l.CPUModel,
		WallTimeField:   l.WallTime,
		CPUTimeField:    l.CPUTime,
	}
}

// HasCPUModel is true when a particular CPU model is requested.
func (l ResourceLimits) HasCPUModel() bool {
	return l.CPUModel != "" && l.CPUModel != UnspecifiedCPUModel
}

// NormalizeResourceLimits validates a raw record and returns a new, fully specified one.
// An empty record is an error. Missing sizes, cores and times default to zero and a
// missing CPU model to "unspecified". Values that cannot be converted to canonical
// units fail with a *ConfigurationError naming the field and the value.
func NormalizeResourceLimits(raw RawResourceLimits) (ResourceLimits, error) {
	if len(raw) == 0 {
		return ResourceLimits{}, &ConfigurationError{Reason: "resource limits are not specified"}
	}

	var (
		limits ResourceLimits
		err    error
	)
	if limits.MemorySize, err = parseBytes(MemorySizeField, raw[MemorySizeField]); err != nil {
		return ResourceLimits{}, err
	}
	if limits.DiskSize, err = parseBytes(DiskSizeField, raw[DiskSizeField]); err != nil {
		return ResourceLimits{}, err
	}
	cores, err := parseCount(CPUCoresField, raw[CPUCoresField])
	if err != nil {
		return ResourceLimits{}, err
	}
	limits.CPUCores = int(cores)
	if limits.WallTime, err = parseMillis(WallTimeField, raw[WallTimeField]); err != nil {
		return ResourceLimits{}, err
	}
	if limits.CPUTime, err = parseMillis(CPUTimeField, raw[CPUTimeField]); err != nil {
		return ResourceLimits{}, err
	}
	if limits.CPUModel, err = parseModel(raw[CPUModelField]); err != nil {
		return ResourceLimits{}, err
	}
	return limits, nil
}

// wholeNumber converts the numeric types a decoder may produce into a non-negative integer.
// ok is false when v is not a number at all.
func wholeNumber(field string, v interface{}) (n uint64, ok bool, err error) {
	var f float64
	switch x := v.(type) {
	case int:
		f = float64(x)
		if x >= 0 {
			return uint64(x), true, nil
		}
	case int32:
		f = float64(x)
		if x >= 0 {
			return uint64(x), true, nil
		}
	case int64:
		f = float64(x)
		if x >= 0 {
			return uint64(x), true, nil
		}
	case uint:
		return uint64(x), true, nil
	case uint32:
		return uint64(x), true, nil
	case uint64:
		return x, true, nil
	case float32:
		f = float64(x)
	case float64:
		f = x
	case json.Number:
		if i, perr := strconv.ParseUint(x.String(), 10, 64); perr == nil {
			return i, true, nil
		}
		parsed, perr := x.Float64()
		if perr != nil {
			return 0, true, &ConfigurationError{Field: field, Value: v, Reason: "not a number"}
		}
		f = parsed
	default:
		return 0, false, nil
	}
	if f < 0 {
		return 0, true, &ConfigurationError{Field: field, Value: v, Reason: "must not be negative"}
	}
	if f != math.Trunc(f) || f > math.MaxInt64 {
		return 0, true, &ConfigurationError{Field: field, Value: v, Reason: "must be a whole number"}
	}
	return uint64(f), true, nil
}

func parseBytes(field string, v interface{}) (uint64, error) {
	if v == nil {
		return 0, nil
	}
	if n, ok, err := wholeNumber(field, v); ok {
		return n, err
	}
	s, ok := v.(string)
	if !ok {
		return 0, &ConfigurationError{Field: field, Value: v, Reason: fmt.Sprintf("unsupported type %T", v)}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if strings.HasPrefix(s, "-") {
		return 0, &ConfigurationError{Field: field, Value: v, Reason: "must not be negative"}
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, &ConfigurationError{Field: field, Value: v, Reason: fmt.Sprintf("cannot convert to bytes: %v", err)}
	}
	if !wholeBytes(s) {
		return 0, &ConfigurationError{Field: field, Value: v, Reason: "must be a whole number of bytes"}
	}
	return n, nil
}

// wholeBytes reports whether a size humanize already accepted names an exact
// byte count, e.g. "1.5KB" does and "1.5B" does not.
func wholeBytes(s string) bool {
	num, unit := s, ""
	if i := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) && r != '.' && r != ',' }); i >= 0 {
		num, unit = s[:i], s[i:]
	}
	mult, err := humanize.ParseBytes("1" + unit)
	if err != nil {
		return false
	}
	q, ok := new(big.Rat).SetString(strings.ReplaceAll(num, ",", ""))
	if !ok {
		return false
	}
	return q.Mul(q, new(big.Rat).SetUint64(mult)).IsInt()
}

func parseCount(field string, v interface{}) (uint64, error) {
	if v == nil {
		return 0, nil
	}
	if n, ok, err := wholeNumber(field, v); ok {
		if err == nil && n > math.MaxInt32 {
			return 0, &ConfigurationError{Field: field, Value: v, Reason: "too large"}
		}
		return n, err
	}
	s, ok := v.(string)
	if !ok {
		return 0, &ConfigurationError{Field: field, Value: v, Reason: fmt.Sprintf("unsupported type %T", v)}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, &ConfigurationError{Field: field, Value: v, Reason: "must be a non-negative whole number"}
	}
	return n, nil
}

func parseMillis(field string, v interface{}) (int64, error) {
	if v == nil {
		return 0, nil
	}
	if n, ok, err := wholeNumber(field, v); ok {
		if err == nil && n > math.MaxInt64 {
			return 0, &ConfigurationError{Field: field, Value: v, Reason: "too large"}
		}
		return int64(n), err
	}
	s, ok := v.(string)
	if !ok {
		return 0, &ConfigurationError{Field: field, Value: v, Reason: fmt.Sprintf("unsupported type %T", v)}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, &ConfigurationError{Field: field, Value: v, Reason: "must not be negative"}
		}
		return n, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, &ConfigurationError{Field: field, Value: v, Reason: fmt.Sprintf("cannot convert to milliseconds: %v", err)}
	}
	if d < 0 {
		return 0, &ConfigurationError{Field: field, Value: v, Reason: "must not be negative"}
	}
	if d%time.Millisecond != 0 {
		return 0, &ConfigurationError{Field: field, Value: v, Reason: "must be a whole number of milliseconds"}
	}
	return int64(d / time.Millisecond), nil
}

func parseModel(v interface{}) (string, error) {
	switch x := v.(type) {
	case nil:
		return UnspecifiedCPUModel, nil
	case string:
		if strings.TrimSpace(x) == "" {
			return UnspecifiedCPUModel, nil
		}
		return x, nil
	default:
		return "", &ConfigurationError{Field: CPUModelField, Value: v, Reason: fmt.Sprintf("unsupported type %T", v)}
	}
}
