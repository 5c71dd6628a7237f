package generator

import "sort"

// Preset names accepted by PresetOptions.
const (
	PresetWeak    = "weak"
	PresetMedium  = "medium"
	PresetStrong  = "strong"
	PresetMaximum = "maximum"
	PresetPIN     = "pin"
)

var presets = map[string]func(o *Options){
	PresetWeak: func(o *Options) {
		o.Length = 8
		o.Special = false
	},
	PresetMedium: func(o *Options) {
		o.Length = 12
		o.SafeSpecialOnly = true
	},
	PresetStrong: func(o *Options) {
		o.Length = 16
		o.MinSpecial = 2
	},
	PresetMaximum: func(o *Options) {
		o.Length = 24
		o.MinUppercase = 2
		o.MinLowercase = 2
		o.MinDigits = 2
		o.MinSpecial = 3
	},
	PresetPIN: func(o *Options) {
		o.Length = 6
		o.Uppercase = false
		o.Lowercase = false
		o.Special = false
	},
}

// PresetOptions returns DefaultOptions with the named preset applied.
func PresetOptions(name string) (Options, bool) {
	apply, ok := presets[name]
	if !ok {
		return Options{}, false
	}
	opts := DefaultOptions()
	apply(&opts)
	return opts, true
}

// PresetNames lists the presets in alphabetical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
