package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Source system kinds accepted in SourceItem.TipoFuente.
const (
	SourceKindDL     = "DL"
	SourceKindRDBMS  = "RDBMS"
	SourceKindAPI    = "API"
	SourceKindFILE   = "FILE"
	SourceKindSTREAM = "STREAM"
)

// DataContractRequest is the root of a generate_contract payload. It is built
// and validated atomically from a single request body and never outlives it.
type DataContractRequest struct {
	DataContract DataContractBody `json:"data_contract" yaml:"data_contract" validate:"required"`
}

// DataContractBody holds the contract sections in their serialization order.
// Field order here is the field order of the YAML output.
type DataContractBody struct {
	TablaUC     TablaUC          `json:"tabla_uc" yaml:"tabla_uc"`
	Source      []SourceItem     `json:"source" yaml:"source" validate:"dive"`
	Schema      []SchemaCol      `json:"schema" yaml:"schema" validate:"dive"`
	Constraints Constraints      `json:"constraints" yaml:"constraints"`
	Validations []ValidationItem `json:"validations" yaml:"validations" validate:"dive"`
	Ownership   Ownership        `json:"ownership" yaml:"ownership"`
	Description *string          `json:"description" yaml:"description"`
}

type TablaUC struct {
	Path string `json:"path" yaml:"path" validate:"required,notblank"`
}

type SourceItem struct {
	TipoFuente          string `json:"tipo_fuente" yaml:"tipo_fuente" validate:"required,oneof=DL RDBMS API FILE STREAM"`
	NombreTecnicoOrigen string `json:"nombre_tecnico_origen" yaml:"nombre_tecnico_origen" validate:"required,notblank"`
	UnityCatalogFuente  string `json:"unity_catalog_fuente" yaml:"unity_catalog_fuente" validate:"required,notblank"`
	TablaOrigen         string `json:"tabla_origen" yaml:"tabla_origen" validate:"required,notblank"`
}

// SchemaCol describes one column. Duplicate names across the schema list are
// allowed on purpose.
type SchemaCol struct {
	Name        string  `json:"name" yaml:"name" validate:"required,notblank"`
	Type        string  `json:"type" yaml:"type" validate:"required,notblank"`
	Nullable    bool    `json:"nullable" yaml:"nullable"`
	IsRequired  bool    `json:"is_required" yaml:"is_required"`
	Description *string `json:"description" yaml:"description"`
}

type Constraints struct {
	PrimaryKey     []string `json:"primary_key" yaml:"primary_key" validate:"required,dive,notblank"`
	Unique         []string `json:"unique" yaml:"unique" validate:"omitempty,dive,notblank"`
	RequiredFields []string `json:"required_fields" yaml:"required_fields" validate:"omitempty,dive,notblank"`
}

type Ownership struct {
	OwnerAnalitico      string  `json:"owner_analitico" yaml:"owner_analitico" validate:"required,notblank"`
	OwnerFuncional      *string `json:"owner_funcional" yaml:"owner_funcional"`
	StewardTecnico      *string `json:"steward_tecnico" yaml:"steward_tecnico"`
	NotificationChannel *string `json:"notification_channel" yaml:"notification_channel"`
	NotificationGroup   *string `json:"notification_group" yaml:"notification_group"`
}

// Validation rule tags. The union over these tags is closed: an element whose
// type field is not one of them fails validation.
const (
	TagNullCheck          = "null_check"
	TagDuplicateCheck     = "duplicate_check"
	TagRangeCheck         = "range_check"
	TagDateRangeCheck     = "date_range_check"
	TagCompleteness       = "completeness"
	TagConsistencyCross   = "consistency_cross"
	TagConsistencyInclude = "consistency_Include"
	TagStatsOutlier       = "stats_outlier"
	TagRowsCountChange    = "rows_count_change"
	TagPatternMatch       = "pattern_match"
	TagMonotonicity       = "monotonicity"
	TagDistValueCount     = "dist_value_count"
	TagColDependency      = "col_dependency"
	TagColCorrelation     = "col_correlation"
	TagFreshness          = "freshness"
)

// ValidationItem is one data-quality rule of the contract. Concrete variants
// are selected by the type tag during decoding. The unexported normalize
// method keeps the union closed to this package.
type ValidationItem interface {
	ValidationTag() string
	normalize()
}

type NullCheck struct {
	Type       string    `json:"type" yaml:"type"`
	Columns    []string  `json:"columns" yaml:"columns" validate:"required,dive,notblank"`
	Thresholds []float64 `json:"thresholds" yaml:"thresholds"`
}

type DuplicateCheck struct {
	Type    string   `json:"type" yaml:"type"`
	Columns []string `json:"columns" yaml:"columns" validate:"required,dive,notblank"`
}

type RangeCheck struct {
	Type     string   `json:"type" yaml:"type"`
	Column   string   `json:"column" yaml:"column" validate:"required,notblank"`
	MinValue *float64 `json:"min_value" yaml:"min_value"`
	MaxValue *float64 `json:"max_value" yaml:"max_value"`
}

type DateRangeCheck struct {
	Type      string  `json:"type" yaml:"type"`
	Column    string  `json:"column" yaml:"column" validate:"required,notblank"`
	StartDate *string `json:"start_date" yaml:"start_date"`
	EndDate   *string `json:"end_date" yaml:"end_date"`
}

type Completeness struct {
	Type               string `json:"type" yaml:"type"`
	ExpectedMinRecords int    `json:"expected_min_records" yaml:"expected_min_records"`
}

type ConsistencyCross struct {
	Type         string `json:"type" yaml:"type"`
	DfReference  string `json:"df_reference" yaml:"df_reference" validate:"required,notblank"`
	ForeignKey   string `json:"foreign_key" yaml:"foreign_key" validate:"required,notblank"`
	ReferenceKey string `json:"reference_key" yaml:"reference_key" validate:"required,notblank"`
}

type ConsistencyInclude struct {
	Type          string      `json:"type" yaml:"type"`
	Column        string      `json:"column" yaml:"column" validate:"required,notblank"`
	ExpectedValue ScalarValue `json:"expected_value" yaml:"expected_value"`
	Threshold     float64     `json:"threshold" yaml:"threshold"`
}

type StatsOutlier struct {
	Type            string  `json:"type" yaml:"type"`
	Column          string  `json:"column" yaml:"column" validate:"required,notblank"`
	Method          string  `json:"method" yaml:"method" validate:"oneof=zscore iqr"`
	ZscoreThreshold float64 `json:"zscore_threshold" yaml:"zscore_threshold"`
}

type RowsCountChange struct {
	Type             string  `json:"type" yaml:"type"`
	PreviousCount    int     `json:"previous_count" yaml:"previous_count"`
	MaxPercentChange float64 `json:"max_percent_change" yaml:"max_percent_change"`
}

type PatternMatch struct {
	Type              string  `json:"type" yaml:"type"`
	Column            string  `json:"column" yaml:"column" validate:"required,notblank"`
	Pattern           string  `json:"pattern" yaml:"pattern" validate:"required,notblank"`
	ExpectedMatchRate float64 `json:"expected_match_rate" yaml:"expected_match_rate"`
}

type Monotonicity struct {
	Type      string `json:"type" yaml:"type"`
	OrderBy   string `json:"order_by" yaml:"order_by" validate:"required,notblank"`
	Direction string `json:"direction" yaml:"direction" validate:"required,oneof=increasing decreasing"`
}

type DistValueCount struct {
	Type        string `json:"type" yaml:"type"`
	Column      string `json:"column" yaml:"column" validate:"required,notblank"`
	MinDistinct *int   `json:"min_distinct" yaml:"min_distinct"`
	MaxDistinct *int   `json:"max_distinct" yaml:"max_distinct"`
}

type ColDependency struct {
	Type            string      `json:"type" yaml:"type"`
	Column          string      `json:"column" yaml:"column" validate:"required,notblank"`
	ConditionColumn string      `json:"condition_column" yaml:"condition_column" validate:"required,notblank"`
	ConditionValue  ScalarValue `json:"condition_value" yaml:"condition_value"`
}

type ColCorrelation struct {
	Type           string  `json:"type" yaml:"type"`
	Column1        string  `json:"column_1" yaml:"column_1" validate:"required,notblank"`
	Column2        string  `json:"column_2" yaml:"column_2" validate:"required,notblank"`
	MaxCorrelation float64 `json:"max_correlation" yaml:"max_correlation"`
}

type Freshness struct {
	Type            string `json:"type" yaml:"type"`
	TimestampColumn string `json:"timestamp_column" yaml:"timestamp_column" validate:"required,notblank"`
	MaxAgeHours     int    `json:"max_age_hours" yaml:"max_age_hours"`
}

func (v *NullCheck) ValidationTag() string { return TagNullCheck }
func (v *DuplicateCheck) ValidationTag() string { return TagDuplicateCheck }
func (v *RangeCheck) ValidationTag() string { return TagRangeCheck }
func (v *DateRangeCheck) ValidationTag() string { return TagDateRangeCheck }
func (v *Completeness) ValidationTag() string { return TagCompleteness }
func (v *ConsistencyCross) ValidationTag() string { return TagConsistencyCross }
func (v *ConsistencyInclude) ValidationTag() string { return TagConsistencyInclude }
func (v *StatsOutlier) ValidationTag() string { return TagStatsOutlier }
func (v *RowsCountChange) ValidationTag() string { return TagRowsCountChange }
func (v *PatternMatch) ValidationTag() string { return TagPatternMatch }
func (v *Monotonicity) ValidationTag() string { return TagMonotonicity }
func (v *DistValueCount) ValidationTag() string { return TagDistValueCount }
func (v *ColDependency) ValidationTag() string { return TagColDependency }
func (v *ColCorrelation) ValidationTag() string { return TagColCorrelation }
func (v *Freshness) ValidationTag() string { return TagFreshness }

// ScalarValue holds a string, integer, float or boolean, preserving which of
// the four it was given as. It backs expected_value and condition_value.
type ScalarValue struct {
	v any
}

func NewScalarValue(v any) ScalarValue { return ScalarValue{v: v} }

func (s ScalarValue) Value() any { return s.v }
func (s ScalarValue) IsSet() bool { return s.v != nil }
func (s ScalarValue) String() string { return fmt.Sprint(s.v) }

func (s *ScalarValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return fmt.Errorf("expected string, int, float or bool, got null")
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch val := raw.(type) {
	case string:
		s.v = val
	case bool:
		s.v = val
	case json.Number:
		if i, err := val.Int64(); err == nil && !strings.ContainsAny(val.String(), ".eE") {
			s.v = i
			return nil
		}
		f, err := val.Float64()
		if err != nil {
			return err
		}
		s.v = f
	default:
		return fmt.Errorf("expected string, int, float or bool, got %T", raw)
	}
	return nil
}

func (s ScalarValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.v)
}

// MarshalYAML emits the underlying scalar so the YAML output carries the
// value in its original kind.
func (s ScalarValue) MarshalYAML() (any, error) {
	return s.v, nil
}
