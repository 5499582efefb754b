package building

// Field names an integer counter that can be incremented in place.
// The values double as column names in SQL backends.
type Field string

const (
	FieldPop       Field = "pop"
	FieldTime      Field = "time"
	FieldRoad      Field = "road"
	FieldStage     Field = "stage"
	FieldWorldTime Field = "world_time"
)

func (f Field) Valid() bool {
	switch f {
	case FieldPop, FieldTime, FieldRoad, FieldStage, FieldWorldTime:
		return true
	}
	return false
}

func (r Record) Counter(f Field) (int, error) {
	switch f {
	case FieldPop:
		return r.Pop, nil
	case FieldTime:
		return r.Time, nil
	case FieldRoad:
		return r.Road, nil
	case FieldStage:
		return r.Stage, nil
	case FieldWorldTime:
		return r.WorldTime, nil
	}
	return 0, ErrUnknownField
}

func (r *Record) SetCounter(f Field, v int) error {
	switch f {
	case FieldPop:
		r.Pop = v
	case FieldTime:
		r.Time = v
	case FieldRoad:
		r.Road = v
	case FieldStage:
		r.Stage = v
	case FieldWorldTime:
		r.WorldTime = v
	default:
		return ErrUnknownField
	}
	return nil
}

type Increment struct {
	Name  string
	Field Field
	By    int
}

type Operator string

const (
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
)

func (o Operator) Valid() bool {
	switch o {
	case OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
		return true
	}
	return false
}

// Condition gates an increment. It is checked against the value the
// counter would hold after the increment, so {"<=", 2} caps at 2.
type Condition struct {
	Operator Operator
	Limit    int
}

func (c *Condition) Validate() error {
	if c == nil || c.Operator.Valid() {
		return nil
	}
	return ErrInvalidOperator
}

// Allows reports whether next satisfies the condition. A nil condition
// always allows.
func (c *Condition) Allows(next int) bool {
	if c == nil {
		return true
	}
	switch c.Operator {
	case OpLess:
		return next < c.Limit
	case OpLessEqual:
		return next <= c.Limit
	case OpGreater:
		return next > c.Limit
	case OpGreaterEqual:
		return next >= c.Limit
	}
	return false
}

// ApplyIncrement performs inc on r if cond allows it and reports whether it did.
func (r *Record) ApplyIncrement(inc Increment, cond *Condition) (bool, error) {
	if err := cond.Validate(); err != nil {
		return false, err
	}
	cur, err := r.Counter(inc.Field)
	if err != nil {
		return false, err
	}
	next := cur + inc.By
	if !cond.Allows(next) {
		return false, nil
	}
	return true, r.SetCounter(inc.Field, next)
}
