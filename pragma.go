package gocheck

import "strings"

// pragmaOverride captures one scoped "disable:<category>" or
// "enable:<category>" annotation attached to an instruction.
type pragmaOverride struct {
	category string
	enable   bool
}

func parsePragmas(raw []string) []pragmaOverride {
	out := make([]pragmaOverride, 0, len(raw))
	for _, p := range raw {
		enable := true
		category := p
		if strings.HasPrefix(p, "disable:") {
			enable = false
			category = strings.TrimPrefix(p, "disable:")
		} else if strings.HasPrefix(p, "enable:") {
			category = strings.TrimPrefix(p, "enable:")
		}
		out = append(out, pragmaOverride{category: category, enable: enable})
	}
	return out
}

// applyPragmas flips the named categories on opts for the duration of the
// caller's scope and returns a restore func that puts the prior values
// back; runFunction calls it once it has finished with each instruction.
func applyPragmas(opts *Options, raw []string) func() {
	overrides := parsePragmas(raw)
	if len(overrides) == 0 {
		return func() {}
	}
	saved := make([]bool, len(overrides))
	for i, ov := range overrides {
		saved[i] = opts.categoryEnabled(ov.category)
		opts.setCategoryEnabled(ov.category, ov.enable)
	}
	return func() {
		for i, ov := range overrides {
			opts.setCategoryEnabled(ov.category, saved[i])
		}
	}
}
