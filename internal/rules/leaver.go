package rules

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/JonMunkholm/regvalidate/internal/schema"
)

// LeaverRuleSet selects which of the two member-movement code schemes a run
// enforces. Exactly one is active per run.
type LeaverRuleSet int

const (
	// LeaverRulesStatusCode is the legacy scheme: status_code A-Q, leaver_code unused.
	LeaverRulesStatusCode LeaverRuleSet = iota
	// LeaverRulesLeaverCode is the newer scheme: leaver_code 01-17 with a
	// mandatory date and change reason, status_code unused.
	LeaverRulesLeaverCode
)

func (l LeaverRuleSet) String() string {
	switch l {
	case LeaverRulesStatusCode:
		return "status"
	case LeaverRulesLeaverCode:
		return "leaver"
	}
	return fmt.Sprintf("LeaverRuleSet(%d)", int(l))
}

// ParseLeaverRuleSet accepts "status" or "leaver" (case-insensitive).
func ParseLeaverRuleSet(s string) (LeaverRuleSet, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "status", "":
		return LeaverRulesStatusCode, nil
	case "leaver":
		return LeaverRulesLeaverCode, nil
	}
	return 0, fmt.Errorf("unknown leaver rule set %q (want status or leaver)", s)
}

const dateLayout = "02/01/2006"

var datePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

var (
	statusCodes = newCodeSet("A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N", "O", "P", "Q")
	leaverCodes = newCodeSet("01", "02", "03", "04", "05", "06", "07", "08", "09",
		"10", "11", "12", "13", "14", "15", "16", "17")
)

// parseDate returns the date and whether v is a real dd/MM/yyyy date.
func parseDate(v string) (time.Time, bool) {
	if !datePattern.MatchString(v) {
		return time.Time{}, false
	}
	d, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// parentInProducerUpload: a producer's own row may not declare itself leaving.
func parentInProducerUpload(row schema.Row, ctx Context) bool {
	return !ctx.ComplianceScheme && isParent(row, ctx)
}

func leaverRules(set LeaverRuleSet) []Rule {
	var rs []Rule
	var codeField schema.Field

	switch set {
	case LeaverRulesLeaverCode:
		codeField = schema.LeaverCode
		hasCode := func(row schema.Row, _ Context) bool { return row.Get(schema.LeaverCode) != "" }
		rs = append(rs,
			mustBeEmpty(schema.StatusCode, StatusCodeNotPermitted),
			notOn(schema.LeaverCode, LeaverCodeNotAllowedForParent, parentInProducerUpload),
			inSet(schema.LeaverCode, InvalidLeaverCode, leaverCodes),
			requiredWhen(schema.LeaverDate, MissingLeaverDate, hasCode),
			requiredWhen(schema.OrganisationChangeReason, MissingOrganisationChangeReason, hasCode),
		)
	default:
		codeField = schema.StatusCode
		rs = append(rs,
			notOn(schema.StatusCode, StatusCodeNotAllowedForParent, parentInProducerUpload),
			inSet(schema.StatusCode, InvalidStatusCode, statusCodes),
			mustBeEmpty(schema.LeaverCode, LeaverCodeNotPermitted),
		)
	}

	return append(rs,
		rule(schema.LeaverDate, func(row schema.Row, _ Context) Code {
			if row.Get(schema.LeaverDate) != "" && row.Get(codeField) == "" {
				return LeaverDateNotAllowed
			}
			return ""
		}),
		matches(schema.LeaverDate, InvalidLeaverDateFormat, validDate),
		rule(schema.LeaverDate, notInFuture(schema.LeaverDate, LeaverDateInFuture)),
		rule(schema.LeaverDate, joinerNotAfterLeaver),
		matches(schema.JoinerDate, InvalidJoinerDateFormat, validDate),
		rule(schema.JoinerDate, notInFuture(schema.JoinerDate, JoinerDateInFuture)),
	)
}

func validDate(v string) bool {
	_, ok := parseDate(v)
	return ok
}

func notInFuture(f schema.Field, code Code) Check {
	return func(row schema.Row, ctx Context) Code {
		d, ok := parseDate(row.Get(f))
		if ok && d.After(ctx.today()) {
			return code
		}
		return ""
	}
}

func joinerNotAfterLeaver(row schema.Row, _ Context) Code {
	leaver, ok1 := parseDate(row.Get(schema.LeaverDate))
	joiner, ok2 := parseDate(row.Get(schema.JoinerDate))
	if ok1 && ok2 && joiner.After(leaver) {
		return LeaverDateBeforeJoinerDate
	}
	return ""
}

func mustBeEmpty(f schema.Field, code Code) Rule {
	return rule(f, func(row schema.Row, _ Context) Code {
		if row.Get(f) != "" {
			return code
		}
		return ""
	})
}

// notOn fails with code when the field is filled in on a row matching when.
func notOn(f schema.Field, code Code, when func(schema.Row, Context) bool) Rule {
	return rule(f, func(row schema.Row, ctx Context) Code {
		if row.Get(f) != "" && when(row, ctx) {
			return code
		}
		return ""
	})
}
