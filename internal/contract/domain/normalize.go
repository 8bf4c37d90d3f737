package domain

import "strings"

// Normalization trims surrounding whitespace off every string field before
// the non-empty checks run, mirroring how the contract fields are defined.
// Enum-like fields (tipo_fuente, method, direction) are left untouched so a
// padded enum value fails validation instead of being silently repaired.

func (r *DataContractRequest) normalize() {
	r.DataContract.normalize()
}

func (b *DataContractBody) normalize() {
	b.TablaUC.Path = strings.TrimSpace(b.TablaUC.Path)
	for i := range b.Source {
		b.Source[i].normalize()
	}
	for i := range b.Schema {
		b.Schema[i].normalize()
	}
	b.Constraints.normalize()
	for _, v := range b.Validations {
		v.normalize()
	}
	b.Ownership.normalize()
	trimPtr(&b.Description)
}

func (s *SourceItem) normalize() {
	s.NombreTecnicoOrigen = strings.TrimSpace(s.NombreTecnicoOrigen)
	s.UnityCatalogFuente = strings.TrimSpace(s.UnityCatalogFuente)
	s.TablaOrigen = strings.TrimSpace(s.TablaOrigen)
}

func (s *SchemaCol) normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Type = strings.TrimSpace(s.Type)
	trimPtr(&s.Description)
}

func (c *Constraints) normalize() {
	trimAll(c.PrimaryKey)
	trimAll(c.Unique)
	trimAll(c.RequiredFields)
}

func (o *Ownership) normalize() {
	o.OwnerAnalitico = strings.TrimSpace(o.OwnerAnalitico)
	trimPtr(&o.OwnerFuncional)
	trimPtr(&o.StewardTecnico)
	trimPtr(&o.NotificationChannel)
	trimPtr(&o.NotificationGroup)
}

func (v *NullCheck) normalize()      { trimAll(v.Columns) }
func (v *DuplicateCheck) normalize() { trimAll(v.Columns) }

func (v *RangeCheck) normalize() {
	v.Column = strings.TrimSpace(v.Column)
}

func (v *DateRangeCheck) normalize() {
	v.Column = strings.TrimSpace(v.Column)
	trimPtr(&v.StartDate)
	trimPtr(&v.EndDate)
}

func (v *Completeness) normalize() {}

func (v *ConsistencyCross) normalize() {
	v.DfReference = strings.TrimSpace(v.DfReference)
	v.ForeignKey = strings.TrimSpace(v.ForeignKey)
	v.ReferenceKey = strings.TrimSpace(v.ReferenceKey)
}

func (v *ConsistencyInclude) normalize() {
	v.Column = strings.TrimSpace(v.Column)
}

func (v *StatsOutlier) normalize() {
	v.Column = strings.TrimSpace(v.Column)
}

func (v *RowsCountChange) normalize() {}

func (v *PatternMatch) normalize() {
	v.Column = strings.TrimSpace(v.Column)
	v.Pattern = strings.TrimSpace(v.Pattern)
}

func (v *Monotonicity) normalize() {
	v.OrderBy = strings.TrimSpace(v.OrderBy)
}

func (v *DistValueCount) normalize() {
	v.Column = strings.TrimSpace(v.Column)
}

func (v *ColDependency) normalize() {
	v.Column = strings.TrimSpace(v.Column)
	v.ConditionColumn = strings.TrimSpace(v.ConditionColumn)
}

func (v *ColCorrelation) normalize() {
	v.Column1 = strings.TrimSpace(v.Column1)
	v.Column2 = strings.TrimSpace(v.Column2)
}

func (v *Freshness) normalize() {
	v.TimestampColumn = strings.TrimSpace(v.TimestampColumn)
}

func trimAll(ss []string) {
	for i := range ss {
		ss[i] = strings.TrimSpace(ss[i])
	}
}

func trimPtr(s **string) {
	if *s != nil {
		t := strings.TrimSpace(**s)
		*s = &t
	}
}
