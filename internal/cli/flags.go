package cli

import (
	"strings"
	"time"

	"github.com/alexanderramin/pmt/internal/domain"
	"github.com/alexanderramin/pmt/internal/timeparsing"
	"github.com/spf13/pflag"
)

// complexityValue is a pflag.Value accepting low|medium|high and their
// one-letter forms.
type complexityValue struct{ c *domain.Complexity }

var _ pflag.Value = complexityValue{}

func newComplexityValue(p *domain.Complexity, def domain.Complexity) complexityValue {
	*p = def
	return complexityValue{c: p}
}

func (v complexityValue) String() string {
	if v.c == nil {
		return ""
	}
	return string(*v.c)
}

func (v complexityValue) Set(s string) error {
	c, err := domain.ParseComplexity(s)
	if err != nil {
		return err
	}
	*v.c = c
	return nil
}

func (complexityValue) Type() string { return "complexity" }

type levelValue struct{ l *domain.CompetencyLevel }

var _ pflag.Value = levelValue{}

func newLevelValue(p *domain.CompetencyLevel, def domain.CompetencyLevel) levelValue {
	*p = def
	return levelValue{l: p}
}

func (v levelValue) String() string {
	if v.l == nil {
		return ""
	}
	return string(*v.l)
}

func (v levelValue) Set(s string) error {
	l, err := domain.ParseCompetencyLevel(s)
	if err != nil {
		return err
	}
	*v.l = l
	return nil
}

func (levelValue) Type() string { return "level" }

type roleValue struct{ r *domain.Role }

var _ pflag.Value = roleValue{}

func newRoleValue(p *domain.Role, def domain.Role) roleValue {
	*p = def
	return roleValue{r: p}
}

func (v roleValue) String() string {
	if v.r == nil {
		return ""
	}
	return string(*v.r)
}

func (v roleValue) Set(s string) error {
	r, err := domain.ParseRole(s)
	if err != nil {
		return err
	}
	*v.r = r
	return nil
}

func (roleValue) Type() string { return "role" }

// dateValue parses ISO days, compact offsets and English phrases. "none"
// clears an optional date.
type dateValue struct {
	t   **time.Time
	now func() time.Time
}

var _ pflag.Value = dateValue{}

func newDateValue(p **time.Time, now func() time.Time) dateValue {
	return dateValue{t: p, now: now}
}

func (v dateValue) String() string {
	if v.t == nil || *v.t == nil {
		return ""
	}
	return (*v.t).Format(timeparsing.DateLayout)
}

func (v dateValue) Set(s string) error {
	if strings.EqualFold(strings.TrimSpace(s), "none") {
		*v.t = nil
		return nil
	}
	t, err := timeparsing.ParseDate(s, v.now())
	if err != nil {
		return err
	}
	*v.t = &t
	return nil
}

func (dateValue) Type() string { return "date" }

// addDateFlag registers a date flag bound to p.
func addDateFlag(fs *pflag.FlagSet, p **time.Time, name, usage string, app *App) {
	fs.Var(newDateValue(p, app.now), name, usage+` (YYYY-MM-DD, +2w, "next friday")`)
}
