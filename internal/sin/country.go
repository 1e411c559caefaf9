package sin

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// CountryWidth is the encoded width of a country code.
	CountryWidth = 4

	// UnknownCountry is returned when an encoded country has no table entry.
	UnknownCountry = "??"
)

// countryCodes maps ISO 3166-1 alpha-2 codes to the alphabet positions of
// their two letters.
var countryCodes = map[string]string{
	"AF": "0106", "AL": "0112", "DZ": "0426", "AD": "0104", "AO": "0115", "AG": "0107",
	"AR": "0118", "AM": "0113", "AU": "0121", "AT": "0120", "AZ": "0126", "BS": "0219",
	"BH": "0208", "BD": "0204", "BB": "0202", "BY": "0225", "BE": "0205", "BZ": "0226",
	"BJ": "0210", "BT": "0220", "BO": "0215", "BA": "0201", "BW": "0223", "BR": "0218",
	"BN": "0214", "BG": "0207", "BF": "0206", "BI": "0209", "CV": "0322", "KH": "1108",
	"CM": "0313", "CA": "0301", "CF": "0306", "TD": "2004", "CL": "0312", "CN": "0314",
	"CO": "0315", "KM": "1113", "CG": "0307", "CD": "0304", "CR": "0318", "HR": "0818",
	"CU": "0321", "CY": "0325", "CZ": "0326", "DK": "0411", "DJ": "0410", "DM": "0413",
	"DO": "0415", "EC": "0503", "EG": "0507", "SV": "1922", "GQ": "0717", "ER": "0518",
	"EE": "0505", "SZ": "1926", "ET": "0520", "FJ": "0610", "FI": "0609", "FR": "0618",
	"GA": "0701", "GM": "0713", "GE": "0705", "DE": "0405", "GH": "0708", "GR": "0718",
	"GD": "0704", "GT": "0720", "GN": "0714", "GW": "0723", "GY": "0725", "HT": "0820",
	"HN": "0814", "HU": "0821", "IS": "0919", "IN": "0914", "ID": "0904", "IR": "0918",
	"IQ": "0917", "IE": "0905", "IL": "0912", "IT": "0920", "JM": "1013", "JP": "1016",
	"JO": "1015", "KZ": "1126", "KE": "1105", "KI": "1109", "KW": "1123", "KG": "1107",
	"LA": "1201", "LV": "1222", "LB": "1202", "LS": "1219", "LR": "1218", "LY": "1225",
	"LI": "1209", "LT": "1220", "LU": "1221", "MG": "1307", "MW": "1323", "MY": "1325",
	"MV": "1322", "ML": "1312", "MT": "1320", "MH": "1308", "MR": "1318", "MU": "1321",
	"MX": "1324", "FM": "0613", "MD": "1304", "MC": "1303", "MN": "1314", "ME": "1305",
	"MA": "1301", "MZ": "1326", "MM": "1313", "NA": "1401", "NR": "1418", "NP": "1416",
	"NL": "1412", "NZ": "1426", "NI": "1409", "NE": "1405", "NG": "1407", "KP": "1116",
	"MK": "1311", "NO": "1415", "OM": "1513", "PK": "1611", "PW": "1623", "PS": "1619",
	"PA": "1601", "PG": "1607", "PY": "1625", "PE": "1605", "PH": "1608", "PL": "1612",
	"PT": "1620", "QA": "1701", "RO": "1815", "RU": "1821", "RW": "1823", "KN": "1114",
	"LC": "1203", "VC": "2203", "WS": "2319", "SM": "1913", "ST": "1920", "SA": "1901",
	"SN": "1914", "RS": "1819", "SC": "1903", "SL": "1912", "SG": "1907", "SK": "1911",
	"SI": "1909", "SB": "1902", "SO": "1915", "ZA": "2601", "KR": "1118", "SS": "1919",
	"ES": "0519", "LK": "1211", "SD": "1904", "SR": "1918", "SE": "1905", "CH": "0308",
	"SY": "1925", "TW": "2023", "TJ": "2010", "TZ": "2026", "TH": "2008", "TL": "2012",
	"TG": "2007", "TO": "2015", "TT": "2020", "TN": "2014", "TR": "2018", "TM": "2013",
	"TV": "2022", "UG": "2107", "UA": "2101", "AE": "0105", "GB": "0702", "US": "2119",
	"UY": "2125", "UZ": "2126", "VU": "2221", "VA": "2201", "VE": "2205", "VN": "2214",
	"YE": "2505", "ZM": "2613", "ZW": "2623",
}

var (
	codeToCountry = invertCountries(countryCodes)
	countryList   = sortedCountries(countryCodes)
)

func invertCountries(m map[string]string) map[string]string {
	inv := make(map[string]string, len(m))
	for iso, code := range m {
		inv[code] = iso
	}
	return inv
}

func sortedCountries(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for iso := range m {
		out = append(out, iso)
	}
	sort.Strings(out)
	return out
}

// EncodeCountry returns the four-digit code for an ISO country code.
func EncodeCountry(iso string) (string, error) {
	code, ok := countryCodes[strings.ToUpper(iso)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCountry, iso)
	}
	return code, nil
}

// DecodeCountry returns the ISO code for field, or UnknownCountry when the
// field matches no entry. Decoding is lenient on purpose.
func DecodeCountry(field string) string {
	if iso, ok := codeToCountry[field]; ok {
		return iso
	}
	return UnknownCountry
}

// Countries lists the supported ISO codes in ascending order.
func Countries() []string {
	out := make([]string, len(countryList))
	copy(out, countryList)
	return out
}
