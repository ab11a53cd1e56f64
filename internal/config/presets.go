package config

import "sort"

// Presets are built-in snapshots in the universe text format.
var Presets = map[string]string{
	"solar": "5\n" +
		"2.50e+11\n" +
		"1.4960e+11  0.0000e+00  0.0000e+00  2.9800e+04  5.9740e+24    earth.gif\n" +
		"2.2790e+11  0.0000e+00  0.0000e+00  2.4100e+04  6.4190e+23     mars.gif\n" +
		"5.7900e+10  0.0000e+00  0.0000e+00  4.7900e+04  3.3020e+23  mercury.gif\n" +
		"0.0000e+00  0.0000e+00  0.0000e+00  0.0000e+00  1.9890e+30      sun.gif\n" +
		"1.0820e+11  0.0000e+00  0.0000e+00  3.5000e+04  4.8690e+24    venus.gif\n",
	"sun-earth": "2\n" +
		"2.00e+11\n" +
		"0.0000e+00  0.0000e+00  0.0000e+00  0.0000e+00  1.9890e+30    sun.gif\n" +
		"1.4960e+11  0.0000e+00  0.0000e+00  2.9780e+04  5.9740e+24  earth.gif\n",
	"binary": "2\n" +
		"5.00e+10\n" +
		"-2.0000e+10  0.0000e+00  0.0000e+00 -4.0700e+04  1.9890e+30  star1.gif\n" +
		" 2.0000e+10  0.0000e+00  0.0000e+00  4.0700e+04  1.9890e+30  star2.gif\n",
}

func GetPreset(name string) (string, bool) {
	s, ok := Presets[name]
	return s, ok
}

// ListPresets returns preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
