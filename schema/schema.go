// Package schema formalizes the fixed relational schema assumed by the
// ClassQL code generator: the table/column catalogue and the
// field-tag registry the semantic analyzer and generator both consult
// so they can never disagree about a field's type domain.
package schema

// Field is a canonical field tag, the normalized-AST vocabulary a
// FieldPredicate's Field may hold after synonym folding.
type Field string

const (
	Prof          Field = "prof"
	Subject       Field = "subject"
	Course        Field = "course"
	Title         Field = "title"
	Description   Field = "description"
	CreditHours   Field = "credit_hours"
	Prereqs       Field = "prereqs"
	Corereqs      Field = "corereqs"
	Method        Field = "method"
	Campus        Field = "campus"
	Enrollment    Field = "enrollment"
	MaxEnrollment Field = "max_enrollment"
	Full          Field = "full"
	MeetingType   Field = "meeting_type"
	Start         Field = "start"
	End           Field = "end"
	TimeOfDay     Field = "time"
	Term          Field = "term"
	Section       Field = "section"
	Building      Field = "building"
	Address       Field = "address"
	Room          Field = "room"
	Accessibility Field = "accessibility"
	Date          Field = "date"

	IsMonday    Field = "is_monday"
	IsTuesday   Field = "is_tuesday"
	IsWednesday Field = "is_wednesday"
	IsThursday  Field = "is_thursday"
	IsFriday    Field = "is_friday"
	IsSaturday  Field = "is_saturday"
	IsSunday    Field = "is_sunday"
)

// Category is a field's operator type domain.
type Category int

const (
	// CategoryString accepts Condition operators against a non-aggregate string column.
	CategoryString Category = iota
	// CategoryNumeric accepts BinOp operators against a non-aggregate numeric column.
	CategoryNumeric
	// CategorySyntheticBoolean is the "full" predicate: a computed boolean with no backing column.
	CategorySyntheticBoolean
	// CategoryAggregateString accepts Condition operators against a meeting_times string column.
	CategoryAggregateString
	// CategoryAggregateTime accepts BinOp operators against a meeting_times minute-of-day column.
	CategoryAggregateTime
	// CategoryAggregateBoolean accepts a truth value against a meeting_times is_<day> column.
	CategoryAggregateBoolean
)

// Info describes one field's backing column and legal operator domain.
type Info struct {
	Column     string // fully qualified SQL column, or "" for CategorySyntheticBoolean
	Category   Category
	Aggregate  bool // true if Column lives in meeting_times and needs EXISTS/NOT EXISTS wrapping
}

// Registry is the single source of truth for every field tag's SQL
// column and category. Both the semantic analyzer (operator/category
// legality) and the code generator (column selection and JOIN/EXISTS
// shape) consult this map so they can never disagree about a field's
// type.
var Registry = map[Field]Info{
	Prof:          {Column: "professors.name", Category: CategoryString},
	Subject:       {Column: "courses.subject_code", Category: CategoryString},
	Course:        {Column: "courses.number", Category: CategoryString},
	Title:         {Column: "courses.title", Category: CategoryString},
	Description:   {Column: "courses.description", Category: CategoryString},
	CreditHours:   {Column: "courses.credit_hours", Category: CategoryNumeric},
	Prereqs:       {Column: "courses.prerequisites", Category: CategoryString},
	Corereqs:      {Column: "courses.corequisites", Category: CategoryString},
	Method:        {Column: "sections.instruction_method", Category: CategoryString},
	Campus:        {Column: "sections.campus", Category: CategoryString},
	Enrollment:    {Column: "sections.enrollment", Category: CategoryNumeric},
	MaxEnrollment: {Column: "sections.max_enrollment", Category: CategoryNumeric},
	Full:          {Column: "", Category: CategorySyntheticBoolean},
	Term:          {Column: "term_collections.name", Category: CategoryString},
	Section:       {Column: "sections.sequence", Category: CategoryNumeric},

	MeetingType:   {Column: "meeting_times.meeting_type", Category: CategoryAggregateString, Aggregate: true},
	Start:         {Column: "meeting_times.start_minutes", Category: CategoryAggregateTime, Aggregate: true},
	End:           {Column: "meeting_times.end_minutes", Category: CategoryAggregateTime, Aggregate: true},
	TimeOfDay:     {Column: "meeting_times.start_minutes", Category: CategoryAggregateTime, Aggregate: true},
	Building:      {Column: "meeting_times.building", Category: CategoryAggregateString, Aggregate: true},
	Address:       {Column: "meeting_times.building_address", Category: CategoryAggregateString, Aggregate: true},
	Room:          {Column: "meeting_times.room", Category: CategoryAggregateString, Aggregate: true},
	Accessibility: {Column: "meeting_times.accessibility", Category: CategoryAggregateString, Aggregate: true},
	Date:          {Column: "meeting_times.start_date", Category: CategoryAggregateString, Aggregate: true},

	IsMonday:    {Column: "meeting_times.is_monday", Category: CategoryAggregateBoolean, Aggregate: true},
	IsTuesday:   {Column: "meeting_times.is_tuesday", Category: CategoryAggregateBoolean, Aggregate: true},
	IsWednesday: {Column: "meeting_times.is_wednesday", Category: CategoryAggregateBoolean, Aggregate: true},
	IsThursday:  {Column: "meeting_times.is_thursday", Category: CategoryAggregateBoolean, Aggregate: true},
	IsFriday:    {Column: "meeting_times.is_friday", Category: CategoryAggregateBoolean, Aggregate: true},
	IsSaturday:  {Column: "meeting_times.is_saturday", Category: CategoryAggregateBoolean, Aggregate: true},
	IsSunday:    {Column: "meeting_times.is_sunday", Category: CategoryAggregateBoolean, Aggregate: true},
}

// DayField returns the is_<day> field tag for a canonical lowercase day
// name ("monday".."sunday").
func DayField(day string) (Field, bool) {
	switch day {
	case "monday":
		return IsMonday, true
	case "tuesday":
		return IsTuesday, true
	case "wednesday":
		return IsWednesday, true
	case "thursday":
		return IsThursday, true
	case "friday":
		return IsFriday, true
	case "saturday":
		return IsSaturday, true
	case "sunday":
		return IsSunday, true
	default:
		return "", false
	}
}

// Lookup returns the Info for a canonical field, and ok=false if the
// field is not in the registry (should not happen for a field produced
// by the parser, which only ever builds fields this registry knows).
func Lookup(f Field) (Info, bool) {
	info, ok := Registry[f]
	return info, ok
}

// BaseTables lists the tables joined into every generated query's
// from-clause, in join order: sections is the anchor row; courses and
// professors are inner-joined
// since every section has exactly one course and one primary
// professor; term_collections is inner-joined for the same reason;
// meeting_times is always left-joined, independent of whether the
// query references it, so the projection's shape never depends on the
// WHERE clause. Its columns are projected directly, not aggregated: a
// section with several meeting times yields one row per meeting time.
var BaseTables = []string{"sections", "courses", "professors", "term_collections", "meeting_times"}
