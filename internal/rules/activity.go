package rules

import (
	"strings"

	"github.com/JonMunkholm/regvalidate/internal/schema"
)

// Packaging activity values.
const (
	ActivityPrimary   = "Primary"
	ActivitySecondary = "Secondary"
	ActivityNo        = "No"
)

var activityValues = newCodeSet(ActivityPrimary, ActivitySecondary, ActivityNo)

var activityCodes = map[schema.Field]Code{
	schema.PackagingActivitySO: InvalidPackagingActivitySO,
	schema.PackagingActivityPF: InvalidPackagingActivityPF,
	schema.PackagingActivityIM: InvalidPackagingActivityIM,
	schema.PackagingActivitySE: InvalidPackagingActivitySE,
	schema.PackagingActivityHL: InvalidPackagingActivityHL,
	schema.PackagingActivityOM: InvalidPackagingActivityOM,
	schema.PackagingActivitySL: InvalidPackagingActivitySL,
}

// activityRules checks each of the seven activity columns, then the Primary
// exclusivity across them. The exclusivity error sits on the SO column and is
// only evaluated once every activity holds a valid value.
func activityRules() []Rule {
	rs := make([]Rule, 0, len(schema.PackagingActivities)+1)
	for _, f := range schema.PackagingActivities {
		f, code := f, activityCodes[f]
		rs = append(rs, rule(f, func(row schema.Row, _ Context) Code {
			if !activityValues.has(row.Get(f)) {
				return code
			}
			return ""
		}))
	}
	rs = append(rs, rule(schema.PackagingActivitySO, primaryExclusivity))
	return rs
}

func primaryExclusivity(row schema.Row, _ Context) Code {
	primaries := 0
	for _, f := range schema.PackagingActivities {
		v := row.Get(f)
		if !activityValues.has(v) {
			return ""
		}
		if strings.EqualFold(v, ActivityPrimary) {
			primaries++
		}
	}
	switch {
	case primaries == 0:
		return MissingPrimaryActivity
	case primaries > 1:
		return MultiplePrimaryActivity
	}
	return ""
}
