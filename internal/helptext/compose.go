// Package helptext turns localized help templates and stat records into the
// markup shown in the entity popup.
package helptext

import (
	"log"
	"strings"

	"github.com/ziadkadry99/techtree/internal/catalogue"
)

// Unknown is returned when an entity has no help string.
const Unknown = "?"

// Composer builds popup content from a stat table and a string table.
type Composer struct {
	stats   catalogue.StatTable
	strings catalogue.Strings
	logf    func(format string, args ...any)
}

// Option configures a Composer.
type Option func(*Composer)

// WithLogf routes diagnostics (missing stat records) to fn instead of the
// standard logger.
func WithLogf(fn func(format string, args ...any)) Option {
	return func(c *Composer) { c.logf = fn }
}

// NewComposer creates a Composer over the given tables.
func NewComposer(stats catalogue.StatTable, strs catalogue.Strings, opts ...Option) *Composer {
	c := &Composer{stats: stats, strings: strs, logf: log.Printf}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ComposeHelp returns the primary description markup for an entity. It
// never fails: a missing help string yields "?", a missing stat record
// leaves inline tokens unresolved and logs a diagnostic.
func (c *Composer) ComposeHelp(name, id string, kind catalogue.Kind) string {
	entity, raw, ok := c.lookup(id, kind)
	if !ok {
		return Unknown
	}

	doc := Parse(Lex(raw), kind)
	var stats *catalogue.Stats
	if entity.Stats != nil {
		stats = entity.Stats
	} else {
		c.logf("helptext: no stats found for %s (%s %s)", name, kind, id)
	}

	r := renderer{stats: stats}
	if doc.Shape == ShapeRaw {
		// Stat tokens stay as written; only the cost is filled in.
		r.keepStats = true
		return r.render(doc.All)
	}

	var b strings.Builder
	b.WriteString(`<p class="helptext__heading">` + r.render(doc.Heading) + `</p>`)
	b.WriteString(`<p class="helptext__desc">` + r.render(doc.Desc) + `</p>`)
	if doc.Shape == ShapeFlavor {
		b.WriteString(`<p class="helptext__upgrade_info"><em>` + r.render(doc.Flavor) + `</em>` +
			strings.TrimSpace(r.render(doc.Tail)) + `</p>`)
	}

	if stats == nil {
		placeholder := "&nbsp;"
		if doc.Shape == ShapeBreak {
			if t := strings.TrimSpace(r.render(doc.Tail)); t != "" {
				placeholder = t
			}
		}
		b.WriteString(`<p class="helptext__stats">` + placeholder + `</p>`)
		return b.String()
	}

	b.WriteString(`<h3>Stats</h3><p class="helptext__stats">` + strings.Join(StatFragments(doc.All, stats), ", ") + "</p>")
	return b.String()
}

// ComposeAdvancedStats returns the attack and armour class breakdown for an
// entity, or "" when it has none.
func (c *Composer) ComposeAdvancedStats(name, id string, kind catalogue.Kind) string {
	n, err := catalogue.NumericID(id)
	if err != nil {
		c.logf("helptext: %v", err)
		return ""
	}
	entity, ok := c.stats.Entity(kind, n)
	if !ok || entity.Stats == nil {
		c.logf("helptext: no stats found for %s (%s %s)", name, kind, id)
		return ""
	}
	return classList(entity.Stats.Attacks, "<h3>Attacks</h3>") +
		classList(entity.Stats.Armours, "<h3>Armours</h3>")
}

// FormatEntityCost returns the formatted cost of an entity, or "" if it has
// no stat record.
func (c *Composer) FormatEntityCost(id string, kind catalogue.Kind) string {
	n, err := catalogue.NumericID(id)
	if err != nil {
		return ""
	}
	entity, ok := c.stats.Entity(kind, n)
	if !ok || entity.Stats == nil {
		return ""
	}
	return FormatCost(entity.Stats.Cost)
}

func (c *Composer) lookup(id string, kind catalogue.Kind) (*catalogue.Entity, string, bool) {
	n, err := catalogue.NumericID(id)
	if err != nil {
		return nil, "", false
	}
	entity, ok := c.stats.Entity(kind, n)
	if !ok {
		return nil, "", false
	}
	raw, ok := c.strings.Lookup(entity.HelpStringID)
	if !ok {
		return nil, "", false
	}
	return entity, raw, true
}

func classList(entries []catalogue.ClassAmount, heading string) string {
	if len(entries) == 0 {
		return ""
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = FormatNumber(e.Amount) + " (" + ClassName(e.Class) + ")"
	}
	return heading + "<p>" + strings.Join(parts, ", ") + "</p>"
}

// StatFragments builds the "Stats" list. Token-gated stats are emitted only
// when the template carries their marker; the rest are emitted whenever the
// record defines them.
func StatFragments(items []Item, s *catalogue.Stats) []string {
	present := make(map[string]bool)
	for _, it := range items {
		if it.Tok == STAT {
			present[it.Lit] = true
		}
	}

	var out []string
	gated := func(token, label string, v *float64) {
		if present[token] && v != nil {
			out = append(out, label+FormatNumber(*v))
		}
	}
	gated(StatHP, "HP: ", s.HP)
	gated(StatAttack, "Attack: ", s.Attack)
	gated(StatArmor, "Armor: ", s.MeleeArmor)
	gated(StatPierceArmor, "Pierce armor: ", s.PierceArmor)
	gated(StatGarrison, "Garrison: ", s.GarrisonCapacity)
	gated(StatRange, "Range: ", s.Range)

	positive := func(label string, v *float64) {
		if v != nil && *v > 0 {
			out = append(out, label+FormatNumber(*v))
		}
	}
	defined := func(label string, v *float64) {
		if v != nil {
			out = append(out, label+FormatNumber(*v))
		}
	}
	seconds := func(label string, v *float64) {
		if v != nil {
			out = append(out, label+FormatSeconds(*v))
		}
	}

	positive("Min Range: ", s.MinRange)
	defined("Line of Sight: ", s.LineOfSight)
	defined("Speed: ", s.Speed)
	seconds("Build Time: ", s.TrainTime)
	seconds("Research Time: ", s.ResearchTime)
	defined("Frame Delay: ", s.FrameDelay)
	positive("Charge Attack: ", s.MaxCharge)
	positive("Recharge Rate: ", s.RechargeRate)
	seconds("Recharge Duration: ", s.RechargeDuration)
	seconds("Attack Delay: ", s.AttackDelaySeconds)
	seconds("Reload Time: ", s.ReloadTime)
	if v := s.AccuracyPercent; v != nil && *v < 100 {
		out = append(out, "Accuracy: "+FormatNumber(*v)+"%")
	}
	return out
}

// renderer turns a token run back into markup.
type renderer struct {
	stats *catalogue.Stats
	// keepStats writes stat markers verbatim even when stats are known.
	keepStats bool
}

func (r renderer) render(items []Item) string {
	var b strings.Builder
	bold := false
	for _, it := range items {
		switch it.Tok {
		case TEXT:
			b.WriteString(it.Lit)
		case COST:
			if r.stats != nil {
				b.WriteString("Cost:" + FormatCost(r.stats.Cost))
			} else {
				b.WriteString(it.Src)
			}
		case STAT:
			if r.stats == nil || r.keepStats {
				b.WriteString(it.Src)
			}
		case BOLD:
			if bold {
				b.WriteString("</b>")
			} else {
				b.WriteString("<b>")
			}
			bold = !bold
		case ITALIC:
			b.WriteString("<i>")
		case ENDITAL:
			b.WriteString("</i>")
		case EMPH:
			b.WriteString("<em>")
		case ENDEMPH:
			b.WriteString("</em>")
		case BREAK:
			b.WriteString("<br>")
		default:
			b.WriteString(it.Src)
		}
	}
	if bold {
		b.WriteString("</b>")
	}
	return b.String()
}
