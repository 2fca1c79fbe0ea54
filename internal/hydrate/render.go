package hydrate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"samforge/internal/content"
	"samforge/internal/logging"
)

var (
	placeholderRe = regexp.MustCompile(`\{\{([A-Z_]+)\}\}`)
	titleRe       = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	conditionRe   = regexp.MustCompile(`^\s*([A-Z_]+)\s*(>=|<=|==|!=|>|<)\s*(-?[0-9.]+)\s*$`)
)

// render fills one template: conditionals first, then partial includes, then
// placeholder substitution. Unresolved placeholders are logged, never fatal.
// DOCUMENT_TITLE is derived from the first H1 when the context lacks one.
func (e *Engine) render(tmpl *content.Template, c Context) (string, Context) {
	resolveConditionals(tmpl, c)

	body := tmpl.Body
	for _, name := range tmpl.AllIncludes() {
		partial, err := e.lib.LoadPartial(name, tmpl.Path)
		if err != nil {
			logging.HydrationWarn("Could not load partial %s: %v", name, err)
			continue
		}
		body = strings.ReplaceAll(body, "{{> "+name+"}}", partial)
	}

	rendered := placeholderRe.ReplaceAllStringFunc(body, func(match string) string {
		key := placeholderRe.FindStringSubmatch(match)[1]
		v, ok := c[key]
		if !ok || v == nil {
			return match // left in place and reported below
		}
		return fmt.Sprintf("%v", v)
	})

	if unresolved := placeholderRe.FindAllStringSubmatch(rendered, 5); len(unresolved) > 0 {
		var names []string
		for _, m := range unresolved {
			names = append(names, m[1])
		}
		logging.HydrationWarn("Unresolved placeholders in %s: %v", tmpl.Path, names)
	}

	if _, ok := c["DOCUMENT_TITLE"]; !ok {
		if m := titleRe.FindStringSubmatch(rendered); m != nil {
			c["DOCUMENT_TITLE"] = strings.TrimSpace(m[1])
		} else {
			company, _ := c["COMPANY_NAME"].(string)
			if company == "" {
				company = "Document"
			}
			c["DOCUMENT_TITLE"] = company + " - " + tmpl.Metadata.DocType
		}
	}
	return rendered, c
}

// resolveConditionals evaluates each conditional placeholder's numeric
// condition and stores the selected option in the context. A condition that
// cannot be evaluated falls back to the negative branch.
func resolveConditionals(tmpl *content.Template, c Context) {
	for _, cond := range tmpl.Metadata.Placeholders.Conditional {
		result := evalCondition(cond.Condition, c)

		var value string
		if result {
			value = firstOf(cond.Options, "positive", "high")
		} else {
			value = firstOf(cond.Options, "negative", "low")
		}
		c[cond.Name] = value
	}
}

func firstOf(options map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := options[k]; ok {
			return v
		}
	}
	for _, v := range options {
		return v
	}
	return ""
}

// evalCondition handles simple numeric comparisons like
// "QTD_RETURN_PCT > 0". Unknown placeholders or malformed conditions
// evaluate false.
func evalCondition(condition string, c Context) bool {
	m := conditionRe.FindStringSubmatch(condition)
	if m == nil {
		return false
	}
	left, ok := c.Num(m[1])
	if !ok {
		return false
	}
	right, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return false
	}

	switch m[2] {
	case ">":
		return left > right
	case "<":
		return left < right
	case ">=":
		return left >= right
	case "<=":
		return left <= right
	case "==":
		return left == right
	case "!=":
		return left != right
	}
	return false
}
