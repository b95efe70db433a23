// Package rules loads the validation and repair rules from HCL.
//
// A rules source is one `.hcl` file or a directory of them. Built-in defaults
// are always loaded first; every file found is then merged on top in lexical
// path order, so later files override earlier ones attribute by attribute.
//
//	validation {
//	  collections = ["9 Theme"]
//	  all_modes   = true
//	}
//
//	repair {
//	  weights = { Surface = 0.08, "Bold A11Y" = 1.0 }
//	}
//
//	family "Indigo" { rgb = [0.040, 0.000, 0.200] }
package rules
