package number

// Content lists the builders that together recognize one language's
// integers. Each builder contributes an alternative.
type Content []Builder

var (
	intZero = NewMapBuilder(
		MapEntry{"(zero | oh)", 0},
	)
	intOnes = NewMapBuilder(
		MapEntry{"one", 1},
		MapEntry{"(two | too | to)", 2},
		MapEntry{"three", 3},
		MapEntry{"four", 4},
		MapEntry{"five", 5},
		MapEntry{"six", 6},
		MapEntry{"seven", 7},
		MapEntry{"eight", 8},
		MapEntry{"nine", 9},
	)
	intTeens = NewMapBuilder(
		MapEntry{"ten", 10},
		MapEntry{"eleven", 11},
		MapEntry{"twelve", 12},
		MapEntry{"thirteen", 13},
		MapEntry{"fourteen", 14},
		MapEntry{"fifteen", 15},
		MapEntry{"sixteen", 16},
		MapEntry{"seventeen", 17},
		MapEntry{"eighteen", 18},
		MapEntry{"nineteen", 19},
	)

	// Tens words map to their multiplier of ten.
	intTens = NewMapBuilder(
		MapEntry{"twenty", 2},
		MapEntry{"thirty", 3},
		MapEntry{"forty", 4},
		MapEntry{"fifty", 5},
		MapEntry{"sixty", 6},
		MapEntry{"seventy", 7},
		MapEntry{"eighty", 8},
		MapEntry{"ninety", 9},
	)
	int20to99 = NewMagnitudeBuilder(10, "<multiplier> [<remainder>]",
		[]Builder{intTens},
		[]Builder{intOnes},
	)
	intAnd1to99 = NewCollectionBuilder("[and] <element>",
		intOnes, intTeens, int20to99,
	)
	intHundreds = NewMagnitudeBuilder(100, "[<multiplier>] hundred [<remainder>]",
		[]Builder{intOnes},
		[]Builder{intAnd1to99},
	)

	// "seventeen hundred", "seventy four hundred".
	intHundredsBig = NewMagnitudeBuilder(100, "[<multiplier>] hundred [<remainder>]",
		[]Builder{intTeens, int20to99},
		[]Builder{intAnd1to99},
	)
	intThousands = NewMagnitudeBuilder(1000, "[<multiplier>] thousand [<remainder>]",
		[]Builder{intOnes, intTeens, int20to99, intHundreds},
		[]Builder{intAnd1to99, intHundreds},
	)
	intMillions = NewMagnitudeBuilder(1000000, "[<multiplier>] million [<remainder>]",
		[]Builder{intOnes, intTeens, int20to99, intHundreds, intThousands},
		[]Builder{intAnd1to99, intHundreds, intThousands},
	)
)

// EnglishIntegers recognizes English integers spoken in full, as in
// "two hundred and thirty four thousand five hundred sixty seven".
var EnglishIntegers = Content{
	intZero, intOnes, intTeens, int20to99,
	intHundreds, intHundredsBig, intThousands, intMillions,
}

var (
	// Digit pairs: "two five" is 25, "seven zero" is 70.
	shortTenPairs = NewMagnitudeBuilder(10, "<multiplier> <remainder>",
		[]Builder{intOnes},
		[]Builder{intZero, intOnes},
	)
	// "oh five" inside larger numbers, as in "one oh five".
	shortOhUnits = NewCollectionBuilder("(oh | zero) <element>",
		intOnes,
	)
	shortAnd10to99 = NewCollectionBuilder("[and] <element>",
		intTeens, int20to99, shortTenPairs,
	)
	shortHundreds = NewMagnitudeBuilder(100, "[<multiplier>] hundred [<remainder>]",
		[]Builder{intOnes, intTeens, int20to99},
		[]Builder{intOnes, shortAnd10to99},
	)
	// Dropped "hundred": "one twenty seven", "seventeen fifty three".
	shortHundredPairs = NewMagnitudeBuilder(100, "<multiplier> [hundred] <remainder>",
		[]Builder{intOnes, intTeens, int20to99},
		[]Builder{shortOhUnits, shortAnd10to99},
	)
	shortThousands = NewMagnitudeBuilder(1000, "[<multiplier>] thousand [<remainder>]",
		[]Builder{intOnes},
		[]Builder{intOnes, shortAnd10to99},
	)
	// Dropped "thousand": "seventeen five three".
	shortThousandPairs = NewMagnitudeBuilder(1000, "<multiplier> [thousand] <remainder>",
		[]Builder{intOnes},
		[]Builder{shortHundreds, shortHundredPairs},
	)
)

// EnglishShortIntegers recognizes the relaxed pronunciations useful
// for line and page numbers, where "hundred" may be dropped and digit
// pairs spell larger numbers: "one twenty seven", "seven zero",
// "seventeen fifty three".
var EnglishShortIntegers = Content{
	intZero, intOnes, intTeens, int20to99, shortTenPairs,
	shortHundreds, shortHundredPairs, shortThousands, shortThousandPairs,
}

// EnglishDigits lists the spoken forms of each digit, indexed by
// value.
var EnglishDigits = [][]string{
	{"zero", "oh"},
	{"one"},
	{"two", "too", "to"},
	{"three"},
	{"four"},
	{"five"},
	{"six"},
	{"seven"},
	{"eight"},
	{"nine"},
}
