// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

// CaribbeanCountries is the default country allow-list. Country strings
// from providers are compared against it verbatim, so both the "Saint" and
// "St." spellings appear.
var CaribbeanCountries = []string{
	"Jamaica", "Trinidad and Tobago", "Barbados", "Bahamas",
	"Antigua and Barbuda", "Saint Lucia", "Grenada", "Dominica",
	"Saint Vincent and the Grenadines", "Guyana", "Suriname",
	"Haiti", "Dominican Republic", "Belize",
	"Montserrat", "Saint Kitts and Nevis",
	"St. Lucia", "St. Vincent and the Grenadines",
	"St. Kitts and Nevis", "Cuba",
}

// CaribbeanUniversities is the default institution allow-list, matched as
// case-insensitive substrings of affiliation text. Includes local-language
// and English names for the same institution where both occur in practice.
var CaribbeanUniversities = []string{
	"University of Guyana",
	"University of the Netherlands Antilles",
	"Universidad de Puerto Rico",
	"University of Belize",
	"University of Trinidad and Tobago",
	"Caribbean Maritime University",
	"Anton de Kom University of Suriname",
	"University of Technology Jamaica",
	"Université d'État d'Haïti",
	"Universidad Autónoma de Santo Domingo",
	"University of the Bahamas",
	"University of the West Indies",
	"Universidad de la Habana",
	"University of Havana",
	"State University of Haiti",
	"University of Suriname",
	"Autonomous University of Santo Domingo",
}
