package normalize

// valueMapping folds synonym spellings of units, temperatures, atmospheres
// and counts onto one canonical spelling per concept. Every value must be a
// fixed point of String so that normalization stays idempotent.
var valueMapping = map[string]string{
	// temperature
	"room temperature":    "25 degree celsius",
	"rt":                  "25 degree celsius",
	"r.t.":                "25 degree celsius",
	"ambient temperature": "25 degree celsius",
	"°c":                  "degree celsius",
	"℃":                   "degree celsius",
	"deg c":               "degree celsius",
	"degc":                "degree celsius",
	"degrees celsius":     "degree celsius",
	"celsius":             "degree celsius",
	"kelvin":              "kelvin",

	// time
	"hours":   "h",
	"hour":    "h",
	"hrs":     "h",
	"hr":      "h",
	"minutes": "min",
	"minute":  "min",
	"mins":    "min",
	"seconds": "s",
	"second":  "s",
	"secs":    "s",
	"sec":     "s",
	"days":    "day",
	"d":       "day",

	// volume
	"milliliters": "ml",
	"milliliter":  "ml",
	"millilitre":  "ml",
	"liters":      "l",
	"liter":       "l",
	"litres":      "l",
	"litre":       "l",
	"microliters": "ul",
	"microliter":  "ul",
	// post-fold forms of µL / µmol style spellings (µ folds to "mu")
	"mul":   "ul",
	"mumol": "umol",
	"mug":   "ug",

	// mass
	"grams":      "g",
	"gram":       "g",
	"milligrams": "mg",
	"milligram":  "mg",
	"kilograms":  "kg",
	"kilogram":   "kg",

	// amount of substance
	"millimoles": "mmol",
	"millimole":  "mmol",
	"mmols":      "mmol",
	"moles":      "mol",
	"mole":       "mol",
	"micromoles": "umol",
	"micromole":  "umol",

	// atmosphere
	"n2":                  "nitrogen",
	"nitrogen atmosphere": "nitrogen",
	"ar":                  "argon",
	"argon atmosphere":    "argon",
	"air atmosphere":      "air",
	"inert atmosphere":    "inert",

	// counts and misc
	"drops":       "drop",
	"droplets":    "drop",
	"equivalents": "equiv",
	"equivalent":  "equiv",
	"eq":          "equiv",
	"eq.":         "equiv",
	"atmospheres": "atm",
	"torr":        "torr",
	"millibar":    "mbar",
}

// chemicalSynonyms groups alias spellings of common reagents and solvents
// under one canonical name. Keys are the canonical spellings; aliases are
// given post-normalization (lowercase, folded).
var chemicalSynonyms = map[string][]string{
	"n,n-dimethylformamide": {"dmf", "n,n'-dimethylformamide", "dimethylformamide", "n,n-dimethylmethanamide"},
	"n,n-dimethylacetamide": {"dma", "dmac", "dimethylacetamide"},
	"dimethyl sulfoxide":    {"dmso", "dimethylsulfoxide", "methylsulfinylmethane"},
	"dichloromethane":       {"dcm", "methylene chloride", "ch2cl2"},
	"chloroform":            {"chcl3", "trichloromethane"},
	"methanol":              {"meoh", "ch3oh", "methyl alcohol"},
	"ethanol":               {"etoh", "c2h5oh", "ethyl alcohol"},
	"acetonitrile":          {"mecn", "ch3cn", "acn"},
	"tetrahydrofuran":       {"thf"},
	"diethyl ether":         {"et2o", "ether", "ethyl ether"},
	"ethyl acetate":         {"etoac", "ea"},
	"water":                 {"h2o", "distilled water", "deionized water", "deionised water", "di water"},
	"acetone":               {"propan-2-one", "2-propanone"},
	"toluene":               {"methylbenzene"},
	"triethylamine":         {"et3n", "tea"},
	"acetic acid":           {"acoh", "ethanoic acid", "glacial acetic acid"},
	"hydrochloric acid":     {"hcl"},
	"nitric acid":           {"hno3"},
	"1,4-dioxane":           {"dioxane", "p-dioxane"},
	"n-methyl-2-pyrrolidone": {"nmp", "1-methyl-2-pyrrolidone"},
}

// unit rank classes for compound amount ordering: amount-of-substance sorts
// before mass, mass before volume, everything else last.
var (
	substanceUnits = map[string]bool{"mol": true, "mmol": true, "umol": true, "nmol": true}
	massUnits      = map[string]bool{"g": true, "mg": true, "kg": true, "ug": true}
	volumeUnits    = map[string]bool{"l": true, "ml": true, "ul": true, "drop": true}
)

// runeFolds maps Unicode subscript/superscript digits, middle-dot variants,
// Greek letters, and curly quotes onto their ASCII forms.
var runeFolds = map[rune]string{
	'₀': "0", '₁': "1", '₂': "2", '₃': "3", '₄': "4",
	'₅': "5", '₆': "6", '₇': "7", '₈': "8", '₉': "9",
	'⁰': "0", '¹': "1", '²': "2", '³': "3", '⁴': "4",
	'⁵': "5", '⁶': "6", '⁷': "7", '⁸': "8", '⁹': "9",
	'·': ".", '•': ".", '∙': ".", '⋅': ".",
	'α': "alpha", 'β': "beta", 'γ': "gamma", 'δ': "delta",
	'ε': "epsilon", 'μ': "mu", 'µ': "mu", 'ν': "nu", 'π': "pi",
	'Α': "alpha", 'Β': "beta", 'Γ': "gamma", 'Δ': "delta",
	'’': "'", '‘': "'", '′': "'", 'ʹ': "'",
	'“': "\"", '”': "\"", '″': "\"",
}
