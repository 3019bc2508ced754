package catalog

// Seed data for the reference catalog: product variants with unit costs,
// and AHS/MFN weighted rates for every directional country pair covered
// by the dataset. Rates are keyed importer-side: pairRate.importingTo is
// the country applying the tariff.

type seedProduct struct {
	name  string
	brand string
	cost  float64
	unit  string
}

type seedRate struct {
	importingTo   string
	exportingFrom string
	ahs           float64
	mfn           float64
}

var seedProducts = []seedProduct{
	{"Rice (Paddy & Milled)", "GoldenHarvest", 12.3, "kg"},
	{"Rice (Paddy & Milled)", "PureGrain", 9.7, "kg"},
	{"Rice (Paddy & Milled)", "SunFields", 14.8, "kg"},
	{"Wheat", "FarmGold", 8.5, "kg"},
	{"Wheat", "GrainWorks", 10.2, "kg"},
	{"Wheat", "PrairieChoice", 7.9, "kg"},
	{"Sugar (Raw & Refined)", "SweetVale", 5.3, "kg"},
	{"Sugar (Raw & Refined)", "CaneBloom", 6.9, "kg"},
	{"Sugar (Raw & Refined)", "SugarHaven", 4.8, "kg"},
	{"Palm Oil", "OliveCrest", 14.0, "L"},
	{"Palm Oil", "SunPress", 12.1, "L"},
	{"Palm Oil", "NutriGold", 10.9, "L"},
	{"Coconut Oil", "CocoPure", 13.2, "L"},
	{"Coconut Oil", "TropiOil", 11.8, "L"},
	{"Coconut Oil", "NutriCoco", 10.5, "L"},
	{"Coffee Beans", "BeanCrafters", 7.5, "500g"},
	{"Coffee Beans", "MorningRoast", 8.1, "500g"},
	{"Coffee Beans", "JavaNest", 9.2, "500g"},
	{"Cocoa Beans", "ChocoVale", 9.6, "500g"},
	{"Cocoa Beans", "SweetNest", 10.4, "500g"},
	{"Cocoa Beans", "CocoaBloom", 8.9, "500g"},
	{"Fresh Bananas", "BananaJoy", 6.1, "kg"},
	{"Fresh Bananas", "TropiBan", 5.7, "kg"},
	{"Fresh Bananas", "SunnyBan", 6.5, "kg"},
	{"Fresh Pineapples", "PineSweet", 7.3, "kg"},
	{"Fresh Pineapples", "TropiPine", 6.9, "kg"},
	{"Fresh Pineapples", "PineGold", 7.5, "kg"},
	{"Fresh or Dried Chillies", "SpiceKing", 4.5, "500g"},
	{"Fresh or Dried Chillies", "HotFlame", 5.0, "500g"},
	{"Fresh or Dried Chillies", "RedPepper", 4.8, "500g"},
}

var seedRates = []seedRate{
	{"Australia", "China", 0.25, 3.33},
	{"Australia", "Indonesia", 0, 2.38},
	{"Australia", "India", 4.01, 4.01},
	{"Australia", "Japan", 0.1, 2.88},
	{"Australia", "Malaysia", 0.98, 2.8},
	{"Australia", "Philippines", 0.02, 3.8},
	{"Australia", "Singapore", 0.02, 3.41},
	{"Australia", "United States", 0, 3.29},
	{"Australia", "Vietnam", 0.02, 2.35},
	{"China", "Australia", 1.97, 10.29},
	{"China", "Indonesia", 1.52, 9.13},
	{"China", "India", 17.27, 18.75},
	{"China", "Japan", 12.05, 12.7},
	{"China", "Malaysia", 2.66, 10.74},
	{"China", "Philippines", 0.55, 6.98},
	{"China", "Singapore", 6.36, 12.56},
	{"China", "United States", 8.85, 8.85},
	{"China", "Vietnam", 0.66, 7.3},
	{"India", "Australia", 67.32, 67.32},
	{"India", "China", 29.3, 31.16},
	{"India", "Indonesia", 7.81, 33.59},
	{"India", "Japan", 97.33, 108.03},
	{"India", "Malaysia", 19.09, 42.91},
	{"India", "Philippines", 22.31, 26.3},
	{"India", "Singapore", 59.31, 70.51},
	{"India", "United States", 40.2, 40.2},
	{"India", "Vietnam", 8.46, 23.4},
	{"Indonesia", "Australia", 5.33, 10.69},
	{"Indonesia", "China", 5.56, 11.26},
	{"Indonesia", "India", 4.53, 8.12},
	{"Indonesia", "Japan", 17.61, 24.77},
	{"Indonesia", "Malaysia", 10.29, 19.9},
	{"Indonesia", "Philippines", 6.08, 14.14},
	{"Indonesia", "Singapore", 9.47, 21.33},
	{"Indonesia", "United States", 8.04, 8.04},
	{"Indonesia", "Vietnam", 1.38, 22.41},
	{"Japan", "Australia", 49.59, 73.29},
	{"Japan", "China", 10.67, 11.43},
	{"Japan", "Indonesia", 2.41, 3.85},
	{"Japan", "India", 3.97, 6.12},
	{"Japan", "Malaysia", 9.62, 12.24},
	{"Japan", "Philippines", 8.93, 12.46},
	{"Japan", "Singapore", 29.88, 32.59},
	{"Japan", "United States", 5.81, 2.66},
	{"Japan", "Vietnam", 6.77, 10.31},
	{"Malaysia", "Australia", 6.25, 6.25},
	{"Malaysia", "China", 5.28, 5.28},
	{"Malaysia", "Indonesia", 8.77, 8.77},
	{"Malaysia", "India", 4.66, 4.66},
	{"Malaysia", "Japan", 30.1, 30.1},
	{"Malaysia", "Philippines", 9.61, 9.61},
	{"Malaysia", "Singapore", 10.11, 10.11},
	{"Malaysia", "United States", 6.74, 6.74},
	{"Malaysia", "Vietnam", 3.5, 3.5},
	{"Philippines", "Australia", 0.06, 10.26},
	{"Philippines", "China", 3.12, 10.07},
	{"Philippines", "Indonesia", 0.02, 24.75},
	{"Philippines", "India", 3.2, 8.57},
	{"Philippines", "Japan", 0, 6.8},
	{"Philippines", "Malaysia", 0.1, 9.54},
	{"Philippines", "Singapore", 0, 7.12},
	{"Philippines", "United States", 4.1, 4.1},
	{"Philippines", "Vietnam", 0, 18.71},
	{"United States", "Australia", 3.43, 10.11},
	{"United States", "China", 7.5, 7.5},
	{"United States", "Indonesia", 3.54, 5.48},
	{"United States", "India", 6.18, 6.18},
	{"United States", "Japan", 4.63, 4.73},
	{"United States", "Malaysia", 6.78, 6.78},
	{"United States", "Philippines", 3.76, 5.33},
	{"United States", "Singapore", 0, 16.08},
	{"United States", "Vietnam", 4.59, 4.59},
	{"Vietnam", "Australia", 0.37, 39.74},
	{"Vietnam", "China", 6, 19.4},
	{"Vietnam", "Indonesia", 11.74, 46.32},
	{"Vietnam", "India", 0.8, 13.59},
	{"Vietnam", "Japan", 2.56, 17.52},
	{"Vietnam", "Malaysia", 1.16, 32.27},
	{"Vietnam", "Philippines", 5.64, 18.82},
	{"Vietnam", "Singapore", 0, 14.43},
	{"Vietnam", "United States", 8.43, 8.43},
	{"Singapore", "Australia", 0, 2.44},
	{"Singapore", "China", 0, 2.22},
	{"Singapore", "Indonesia", 0, 2.75},
	{"Singapore", "India", 0, 3.24},
	{"Singapore", "Japan", 0, 2.3},
	{"Singapore", "Malaysia", 0, 2.21},
	{"Singapore", "Philippines", 0, 4.02},
	{"Singapore", "United States", 0, 2.09},
	{"Singapore", "Vietnam", 0, 3.24},
}
