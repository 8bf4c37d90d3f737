package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// DecodeRequest turns a parsed-JSON payload into a typed, normalized
// DataContractRequest. On failure it returns every issue found in one pass,
// not just the first: decode-stage issues (unknown keys, wrong JSON types,
// explicit nulls, bad union tags) and field-rule issues are merged into a
// single report. The input must already be syntactically valid JSON;
// malformed bytes are the caller's 400 case.
func DecodeRequest(data []byte) (*DataContractRequest, Issues) {
	var iss Issues

	root, ok := decodeObject(data, "", &iss)
	if !ok {
		return nil, iss
	}
	checkKeys(root, "", &iss, []string{"data_contract"}, nil)

	raw, ok := root["data_contract"]
	if !ok || isNull(raw) {
		return nil, iss
	}

	req := &DataContractRequest{}
	decodeBody(raw, "data_contract", &req.DataContract, &iss)

	req.normalize()
	iss = mergeIssues(iss, validateTree(req))
	if len(iss) > 0 {
		return nil, iss
	}
	return req, nil
}

// mergeIssues combines decode-stage and field-rule issues into one report. A
// field-rule issue is dropped when the decoder already flagged the same slot
// or an enclosing one: such slots hold partial data and the field rule would
// only restate the structural failure.
func mergeIssues(structural, field Issues) Issues {
	out := structural
	for _, fi := range field {
		if overlaps(structural, fi.Path) {
			continue
		}
		out = append(out, fi)
	}
	return out
}

func overlaps(iss Issues, path string) bool {
	for _, it := range iss {
		if it.Path == path ||
			strings.HasPrefix(path, it.Path+".") ||
			strings.HasPrefix(it.Path, path+".") {
			return true
		}
	}
	return false
}

func decodeBody(data []byte, path string, body *DataContractBody, iss *Issues) {
	m, ok := decodeObject(data, path, iss)
	if !ok {
		return
	}
	checkKeys(m, path, iss,
		[]string{"tabla_uc", "source", "schema", "constraints", "validations", "ownership"},
		[]string{"description"})

	if raw, ok := m["tabla_uc"]; ok && !isNull(raw) {
		decodeTablaUC(raw, joinPath(path, "tabla_uc"), &body.TablaUC, iss)
	}
	if raw, ok := m["source"]; ok && !isNull(raw) {
		body.Source = decodeSourceList(raw, joinPath(path, "source"), iss)
	}
	if raw, ok := m["schema"]; ok && !isNull(raw) {
		body.Schema = decodeSchemaList(raw, joinPath(path, "schema"), iss)
	}
	if raw, ok := m["constraints"]; ok && !isNull(raw) {
		decodeConstraints(raw, joinPath(path, "constraints"), &body.Constraints, iss)
	}
	if raw, ok := m["validations"]; ok && !isNull(raw) {
		body.Validations = decodeValidations(raw, joinPath(path, "validations"), iss)
	}
	if raw, ok := m["ownership"]; ok && !isNull(raw) {
		decodeOwnership(raw, joinPath(path, "ownership"), &body.Ownership, iss)
	}
	decodeField(m, "description", path, &body.Description, iss)
}

func decodeTablaUC(data []byte, path string, dst *TablaUC, iss *Issues) {
	m, ok := decodeObject(data, path, iss)
	if !ok {
		return
	}
	checkKeys(m, path, iss, nil, []string{"path"})
	decodeField(m, "path", path, &dst.Path, iss)
}

func decodeConstraints(data []byte, path string, dst *Constraints, iss *Issues) {
	m, ok := decodeObject(data, path, iss)
	if !ok {
		return
	}
	checkKeys(m, path, iss, nil, []string{"primary_key", "unique", "required_fields"})
	decodeField(m, "primary_key", path, &dst.PrimaryKey, iss)
	decodeField(m, "unique", path, &dst.Unique, iss)
	decodeField(m, "required_fields", path, &dst.RequiredFields, iss)
}

func decodeOwnership(data []byte, path string, dst *Ownership, iss *Issues) {
	m, ok := decodeObject(data, path, iss)
	if !ok {
		return
	}
	checkKeys(m, path, iss, nil, []string{
		"owner_analitico", "owner_funcional", "steward_tecnico",
		"notification_channel", "notification_group",
	})
	decodeField(m, "owner_analitico", path, &dst.OwnerAnalitico, iss)
	decodeField(m, "owner_funcional", path, &dst.OwnerFuncional, iss)
	decodeField(m, "steward_tecnico", path, &dst.StewardTecnico, iss)
	decodeField(m, "notification_channel", path, &dst.NotificationChannel, iss)
	decodeField(m, "notification_group", path, &dst.NotificationGroup, iss)
}

func decodeSourceList(data []byte, path string, iss *Issues) []SourceItem {
	elems, ok := decodeArray(data, path, iss)
	if !ok {
		return nil
	}
	items := make([]SourceItem, len(elems))
	for i, raw := range elems {
		p := fmt.Sprintf("%s.%d", path, i)
		m, ok := decodeObject(raw, p, iss)
		if !ok {
			continue
		}
		checkKeys(m, p, iss, nil, []string{
			"tipo_fuente", "nombre_tecnico_origen", "unity_catalog_fuente", "tabla_origen",
		})
		decodeField(m, "tipo_fuente", p, &items[i].TipoFuente, iss)
		decodeField(m, "nombre_tecnico_origen", p, &items[i].NombreTecnicoOrigen, iss)
		decodeField(m, "unity_catalog_fuente", p, &items[i].UnityCatalogFuente, iss)
		decodeField(m, "tabla_origen", p, &items[i].TablaOrigen, iss)
	}
	return items
}

func decodeSchemaList(data []byte, path string, iss *Issues) []SchemaCol {
	elems, ok := decodeArray(data, path, iss)
	if !ok {
		return nil
	}
	cols := make([]SchemaCol, len(elems))
	for i, raw := range elems {
		p := fmt.Sprintf("%s.%d", path, i)
		m, ok := decodeObject(raw, p, iss)
		if !ok {
			continue
		}
		checkKeys(m, p, iss, nil, []string{"name", "type", "nullable", "is_required", "description"})
		decodeField(m, "name", p, &cols[i].Name, iss)
		decodeField(m, "type", p, &cols[i].Type, iss)
		decodeField(m, "nullable", p, &cols[i].Nullable, iss)
		decodeField(m, "is_required", p, &cols[i].IsRequired, iss)
		decodeField(m, "description", p, &cols[i].Description, iss)
		// nullable and is_required are booleans: absence cannot be told apart
		// from false after decoding, so presence is checked on the raw object.
		requireKeys(m, p, iss, "nullable", "is_required")
	}
	return cols
}

func decodeValidations(data []byte, path string, iss *Issues) []ValidationItem {
	elems, ok := decodeArray(data, path, iss)
	if !ok {
		return nil
	}
	items := make([]ValidationItem, len(elems))
	for i, raw := range elems {
		items[i] = decodeValidationItem(raw, fmt.Sprintf("%s.%d", path, i), iss)
	}
	return items
}

// validationDecoders is the closed dispatch table over the 15 recognized
// validation tags. A tag outside this table always fails validation.
var validationDecoders = map[string]func(m rawObject, path string, iss *Issues) ValidationItem{
	TagNullCheck:          decodeNullCheck,
	TagDuplicateCheck:     decodeDuplicateCheck,
	TagRangeCheck:         decodeRangeCheck,
	TagDateRangeCheck:     decodeDateRangeCheck,
	TagCompleteness:       decodeCompleteness,
	TagConsistencyCross:   decodeConsistencyCross,
	TagConsistencyInclude: decodeConsistencyInclude,
	TagStatsOutlier:       decodeStatsOutlier,
	TagRowsCountChange:    decodeRowsCountChange,
	TagPatternMatch:       decodePatternMatch,
	TagMonotonicity:       decodeMonotonicity,
	TagDistValueCount:     decodeDistValueCount,
	TagColDependency:      decodeColDependency,
	TagColCorrelation:     decodeColCorrelation,
	TagFreshness:          decodeFreshness,
}

// unknownValidation stands in for a list element whose rule could not be
// identified, so later elements keep their original index in the report.
type unknownValidation struct{}

func (v *unknownValidation) ValidationTag() string { return "" }
func (v *unknownValidation) normalize()            {}

func decodeValidationItem(data []byte, path string, iss *Issues) ValidationItem {
	m, ok := decodeObject(data, path, iss)
	if !ok {
		return &unknownValidation{}
	}
	raw, ok := m["type"]
	if !ok {
		*iss = append(*iss, Issue{
			Path:    joinPath(path, "type"),
			Code:    CodeDiscriminatorMissing,
			Message: "validation type tag is required",
		})
		return &unknownValidation{}
	}
	var tag string
	if err := json.Unmarshal(raw, &tag); err != nil {
		*iss = append(*iss, issueFromDecodeError(err, joinPath(path, "type")))
		return &unknownValidation{}
	}
	decode, ok := validationDecoders[tag]
	if !ok {
		*iss = append(*iss, Issue{
			Path:    joinPath(path, "type"),
			Code:    CodeDiscriminatorUnknown,
			Message: fmt.Sprintf("unrecognized validation type %q", tag),
			Value:   tag,
		})
		return &unknownValidation{}
	}
	return decode(m, path, iss)
}

func decodeNullCheck(m rawObject, path string, iss *Issues) ValidationItem {
	v := &NullCheck{Type: TagNullCheck}
	checkKeys(m, path, iss, nil, []string{"type", "columns", "thresholds"})
	decodeField(m, "columns", path, &v.Columns, iss)
	decodeField(m, "thresholds", path, &v.Thresholds, iss)
	requireKeys(m, path, iss, "columns")
	return v
}

func decodeDuplicateCheck(m rawObject, path string, iss *Issues) ValidationItem {
	v := &DuplicateCheck{Type: TagDuplicateCheck}
	checkKeys(m, path, iss, nil, []string{"type", "columns"})
	decodeField(m, "columns", path, &v.Columns, iss)
	requireKeys(m, path, iss, "columns")
	return v
}

func decodeRangeCheck(m rawObject, path string, iss *Issues) ValidationItem {
	v := &RangeCheck{Type: TagRangeCheck}
	checkKeys(m, path, iss, nil, []string{"type", "column", "min_value", "max_value"})
	decodeField(m, "column", path, &v.Column, iss)
	decodeField(m, "min_value", path, &v.MinValue, iss)
	decodeField(m, "max_value", path, &v.MaxValue, iss)
	return v
}

func decodeDateRangeCheck(m rawObject, path string, iss *Issues) ValidationItem {
	v := &DateRangeCheck{Type: TagDateRangeCheck}
	checkKeys(m, path, iss, nil, []string{"type", "column", "start_date", "end_date"})
	decodeField(m, "column", path, &v.Column, iss)
	decodeField(m, "start_date", path, &v.StartDate, iss)
	decodeField(m, "end_date", path, &v.EndDate, iss)
	return v
}

func decodeCompleteness(m rawObject, path string, iss *Issues) ValidationItem {
	v := &Completeness{Type: TagCompleteness}
	checkKeys(m, path, iss, nil, []string{"type", "expected_min_records"})
	decodeField(m, "expected_min_records", path, &v.ExpectedMinRecords, iss)
	requireKeys(m, path, iss, "expected_min_records")
	return v
}

func decodeConsistencyCross(m rawObject, path string, iss *Issues) ValidationItem {
	v := &ConsistencyCross{Type: TagConsistencyCross}
	checkKeys(m, path, iss, nil, []string{"type", "df_reference", "foreign_key", "reference_key"})
	decodeField(m, "df_reference", path, &v.DfReference, iss)
	decodeField(m, "foreign_key", path, &v.ForeignKey, iss)
	decodeField(m, "reference_key", path, &v.ReferenceKey, iss)
	return v
}

func decodeConsistencyInclude(m rawObject, path string, iss *Issues) ValidationItem {
	v := &ConsistencyInclude{Type: TagConsistencyInclude}
	checkKeys(m, path, iss, nil, []string{"type", "column", "expected_value", "threshold"})
	decodeField(m, "column", path, &v.Column, iss)
	decodeField(m, "expected_value", path, &v.ExpectedValue, iss)
	decodeField(m, "threshold", path, &v.Threshold, iss)
	requireKeys(m, path, iss, "expected_value")
	applyFloatDefault(m, "threshold", &v.Threshold, 0.0, path, iss)
	return v
}

func decodeStatsOutlier(m rawObject, path string, iss *Issues) ValidationItem {
	v := &StatsOutlier{Type: TagStatsOutlier}
	checkKeys(m, path, iss, nil, []string{"type", "column", "method", "zscore_threshold"})
	decodeField(m, "column", path, &v.Column, iss)
	decodeField(m, "method", path, &v.Method, iss)
	decodeField(m, "zscore_threshold", path, &v.ZscoreThreshold, iss)
	applyStringDefault(m, "method", &v.Method, "zscore", path, iss)
	applyFloatDefault(m, "zscore_threshold", &v.ZscoreThreshold, 3.0, path, iss)
	return v
}

func decodeRowsCountChange(m rawObject, path string, iss *Issues) ValidationItem {
	v := &RowsCountChange{Type: TagRowsCountChange}
	checkKeys(m, path, iss, nil, []string{"type", "previous_count", "max_percent_change"})
	decodeField(m, "previous_count", path, &v.PreviousCount, iss)
	decodeField(m, "max_percent_change", path, &v.MaxPercentChange, iss)
	requireKeys(m, path, iss, "previous_count")
	applyFloatDefault(m, "max_percent_change", &v.MaxPercentChange, 0.1, path, iss)
	return v
}

func decodePatternMatch(m rawObject, path string, iss *Issues) ValidationItem {
	v := &PatternMatch{Type: TagPatternMatch}
	checkKeys(m, path, iss, nil, []string{"type", "column", "pattern", "expected_match_rate"})
	decodeField(m, "column", path, &v.Column, iss)
	decodeField(m, "pattern", path, &v.Pattern, iss)
	decodeField(m, "expected_match_rate", path, &v.ExpectedMatchRate, iss)
	applyFloatDefault(m, "expected_match_rate", &v.ExpectedMatchRate, 1.0, path, iss)
	return v
}

func decodeMonotonicity(m rawObject, path string, iss *Issues) ValidationItem {
	v := &Monotonicity{Type: TagMonotonicity}
	checkKeys(m, path, iss, nil, []string{"type", "order_by", "direction"})
	decodeField(m, "order_by", path, &v.OrderBy, iss)
	decodeField(m, "direction", path, &v.Direction, iss)
	return v
}

func decodeDistValueCount(m rawObject, path string, iss *Issues) ValidationItem {
	v := &DistValueCount{Type: TagDistValueCount}
	checkKeys(m, path, iss, nil, []string{"type", "column", "min_distinct", "max_distinct"})
	decodeField(m, "column", path, &v.Column, iss)
	decodeField(m, "min_distinct", path, &v.MinDistinct, iss)
	decodeField(m, "max_distinct", path, &v.MaxDistinct, iss)
	return v
}

func decodeColDependency(m rawObject, path string, iss *Issues) ValidationItem {
	v := &ColDependency{Type: TagColDependency}
	checkKeys(m, path, iss, nil, []string{"type", "column", "condition_column", "condition_value"})
	decodeField(m, "column", path, &v.Column, iss)
	decodeField(m, "condition_column", path, &v.ConditionColumn, iss)
	decodeField(m, "condition_value", path, &v.ConditionValue, iss)
	requireKeys(m, path, iss, "condition_value")
	return v
}

func decodeColCorrelation(m rawObject, path string, iss *Issues) ValidationItem {
	v := &ColCorrelation{Type: TagColCorrelation}
	checkKeys(m, path, iss, nil, []string{"type", "column_1", "column_2", "max_correlation"})
	decodeField(m, "column_1", path, &v.Column1, iss)
	decodeField(m, "column_2", path, &v.Column2, iss)
	decodeField(m, "max_correlation", path, &v.MaxCorrelation, iss)
	requireKeys(m, path, iss, "max_correlation")
	return v
}

func decodeFreshness(m rawObject, path string, iss *Issues) ValidationItem {
	v := &Freshness{Type: TagFreshness}
	checkKeys(m, path, iss, nil, []string{"type", "timestamp_column", "max_age_hours"})
	decodeField(m, "timestamp_column", path, &v.TimestampColumn, iss)
	decodeField(m, "max_age_hours", path, &v.MaxAgeHours, iss)
	requireKeys(m, path, iss, "max_age_hours")
	return v
}

type rawObject map[string]json.RawMessage

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func decodeObject(data []byte, path string, iss *Issues) (rawObject, bool) {
	var m rawObject
	if err := json.Unmarshal(data, &m); err != nil {
		*iss = append(*iss, Issue{
			Path:    objectPath(path),
			Code:    CodeInvalidType,
			Message: "expected a JSON object",
		})
		return nil, false
	}
	return m, true
}

func decodeArray(data []byte, path string, iss *Issues) ([]json.RawMessage, bool) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		*iss = append(*iss, Issue{
			Path:    path,
			Code:    CodeInvalidType,
			Message: "expected a JSON array",
		})
		return nil, false
	}
	return elems, true
}

func objectPath(path string) string {
	if path == "" {
		return "$"
	}
	return path
}

// decodeField unmarshals one known key into dst, converting a decode failure
// into a path-addressed issue. Absent and null keys are left to the presence
// checks (requireKeys, applyFloatDefault) and the field rules.
func decodeField(m rawObject, key, path string, dst any, iss *Issues) {
	raw, ok := m[key]
	if !ok || isNull(raw) {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		*iss = append(*iss, issueFromDecodeError(err, joinPath(path, key)))
	}
}

func issueFromDecodeError(err error, path string) Issue {
	if e, ok := err.(*json.UnmarshalTypeError); ok {
		return Issue{
			Path:    path,
			Code:    CodeInvalidType,
			Message: fmt.Sprintf("expected %s, got %s", e.Type, e.Value),
		}
	}
	return Issue{Path: path, Code: CodeParseError, Message: err.Error()}
}

// checkKeys enforces the key set of an object: required keys must be present
// and non-null, and every key outside required+optional is reported, not just
// the first one found.
func checkKeys(m rawObject, path string, iss *Issues, required, optional []string) {
	requireKeys(m, path, iss, required...)

	allowed := make(map[string]struct{}, len(required)+len(optional))
	for _, k := range required {
		allowed[k] = struct{}{}
	}
	for _, k := range optional {
		allowed[k] = struct{}{}
	}
	var unknown []string
	for k := range m {
		if _, ok := allowed[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		*iss = append(*iss, Issue{
			Path:    joinPath(path, k),
			Code:    CodeUnknownKey,
			Message: fmt.Sprintf("unknown field %q", k),
		})
	}
}

// requireKeys flags keys that are absent or explicitly null. Used for fields
// whose zero value cannot be told apart from absence after decoding.
func requireKeys(m rawObject, path string, iss *Issues, names ...string) {
	for _, name := range names {
		raw, ok := m[name]
		if !ok {
			*iss = append(*iss, Issue{
				Path:    joinPath(path, name),
				Code:    CodeRequired,
				Message: "field required",
			})
			continue
		}
		if isNull(raw) {
			*iss = append(*iss, Issue{
				Path:    joinPath(path, name),
				Code:    CodeExplicitNull,
				Message: "null is not a valid value here",
			})
		}
	}
}

// applyFloatDefault fills dst with def when key is absent. An explicit null
// is a failure, never a default trigger.
func applyFloatDefault(m rawObject, key string, dst *float64, def float64, path string, iss *Issues) {
	raw, ok := m[key]
	if !ok {
		*dst = def
		return
	}
	if isNull(raw) {
		*iss = append(*iss, Issue{
			Path:    joinPath(path, key),
			Code:    CodeExplicitNull,
			Message: "null is not a valid value; omit the field to use the default",
		})
	}
}

func applyStringDefault(m rawObject, key string, dst *string, def string, path string, iss *Issues) {
	raw, ok := m[key]
	if !ok {
		*dst = def
		return
	}
	if isNull(raw) {
		*iss = append(*iss, Issue{
			Path:    joinPath(path, key),
			Code:    CodeExplicitNull,
			Message: "null is not a valid value; omit the field to use the default",
		})
	}
}
