// Package domain holds the static instrument universe tracked by the service.
package domain

import "strings"

// Market codes. The market code doubles as the instrument's native currency.
const (
	MarketKRW = "KRW"
	MarketUSD = "USD"
)

// KRSymbols lists the tracked KOSPI/KOSDAQ tickers, highest priority first.
// The refresh scheduler only walks the top slice of this list.
var KRSymbols = []string{
	"005930", // Samsung Electronics
	"000660", // SK hynix
	"035420", // NAVER
	"005380", // Hyundai Motor
	"051910", // LG Chem
	"006400", // Samsung SDI
	"035720", // Kakao
	"068270", // Celltrion
	"207940", // Samsung Biologics
	"373220", // LG Energy Solution
	"005490", // POSCO Holdings
	"000270", // Kia
	"105560", // KB Financial
	"055550", // Shinhan Financial
	"032830", // Samsung Life
	"003550", // LG
	"012330", // Hyundai Mobis
	"066570", // LG Electronics
	"096770", // SK Innovation
	"009150", // Samsung Electro-Mechanics
	"017670", // SK Telecom
	"030200", // KT
	"316140", // Woori Financial
	"086790", // Hana Financial
	"024110", // IBK
	"033780", // KT&G
	"034730", // SK
	"018260", // Samsung SDS
	"003490", // Korean Air
	"090430", // Amorepacific
}

// USSymbols lists the tracked US tickers, highest priority first.
var USSymbols = []string{
	"AAPL", "GOOGL", "MSFT", "AMZN", "TSLA",
	"META", "NVDA", "NFLX", "AMD", "INTC",
	"JPM", "V", "JNJ", "WMT", "PG",
	"UNH", "HD", "DIS", "MA", "BAC",
	"PYPL", "ADBE", "CRM", "PFE", "TMO",
	"ABBV", "COST", "PEP", "KO", "AVGO",
}

var krNames = map[string]string{
	"005930": "Samsung Electronics",
	"000660": "SK hynix",
	"035420": "NAVER",
	"005380": "Hyundai Motor",
	"051910": "LG Chem",
	"006400": "Samsung SDI",
	"035720": "Kakao",
	"068270": "Celltrion",
	"207940": "Samsung Biologics",
	"373220": "LG Energy Solution",
	"005490": "POSCO Holdings",
	"000270": "Kia",
	"105560": "KB Financial Group",
	"055550": "Shinhan Financial Group",
	"032830": "Samsung Life Insurance",
	"003550": "LG Corp.",
	"012330": "Hyundai Mobis",
	"066570": "LG Electronics",
	"096770": "SK Innovation",
	"009150": "Samsung Electro-Mechanics",
	"017670": "SK Telecom",
	"030200": "KT",
	"316140": "Woori Financial Group",
	"086790": "Hana Financial Group",
	"024110": "Industrial Bank of Korea",
	"033780": "KT&G",
	"034730": "SK Inc.",
	"018260": "Samsung SDS",
	"003490": "Korean Air",
	"090430": "Amorepacific",
}

var usNames = map[string]string{
	"AAPL": "Apple Inc.", "GOOGL": "Alphabet Inc.", "MSFT": "Microsoft Corporation",
	"AMZN": "Amazon.com Inc.", "TSLA": "Tesla Inc.", "META": "Meta Platforms Inc.",
	"NVDA": "NVIDIA Corporation", "NFLX": "Netflix Inc.", "AMD": "Advanced Micro Devices",
	"INTC": "Intel Corporation", "JPM": "JPMorgan Chase & Co.", "V": "Visa Inc.",
	"JNJ": "Johnson & Johnson", "WMT": "Walmart Inc.", "PG": "Procter & Gamble Co.",
	"UNH": "UnitedHealth Group Inc.", "HD": "The Home Depot Inc.", "DIS": "The Walt Disney Company",
	"MA": "Mastercard Incorporated", "BAC": "Bank of America Corporation", "PYPL": "PayPal Holdings Inc.",
	"ADBE": "Adobe Inc.", "CRM": "Salesforce Inc.", "PFE": "Pfizer Inc.",
	"TMO": "Thermo Fisher Scientific Inc.", "ABBV": "AbbVie Inc.", "COST": "Costco Wholesale Corporation",
	"PEP": "PepsiCo Inc.", "KO": "The Coca-Cola Company", "AVGO": "Broadcom Inc.",
}

// Seed prices bound fallback synthesis: a synthetic quote never leaves
// [0.7, 1.5] times the symbol's seed price.
var krSeedPrices = map[string]float64{
	"005930": 70000, "000660": 120000, "035420": 180000,
	"005380": 200000, "051910": 350000, "006400": 400000,
	"035720": 40000, "068270": 180000, "207940": 800000,
	"373220": 400000, "005490": 300000, "000270": 80000,
	"105560": 60000, "055550": 35000, "032830": 70000,
}

var usSeedPrices = map[string]float64{
	"AAPL": 190, "GOOGL": 140, "MSFT": 400, "AMZN": 150, "TSLA": 250,
	"META": 350, "NVDA": 800, "NFLX": 450, "AMD": 140, "INTC": 25,
	"JPM": 150, "V": 250, "JNJ": 160, "WMT": 150, "PG": 150,
}

const (
	defaultKRSeed = 50000
	defaultUSSeed = 100
)

// refreshBatchSize is how many symbols per market the background refresh
// walks. Anything beyond the top slice is only fetched on demand, to keep
// upstream load bounded.
const refreshBatchSize = 10

var krSymbolSet = func() map[string]struct{} {
	s := make(map[string]struct{}, len(KRSymbols))
	for _, sym := range KRSymbols {
		s[sym] = struct{}{}
	}
	return s
}()

// IsKoreanSymbol reports whether symbol belongs to the KRW market:
// a 6-digit numeric code, a member of the known KR set, or a .KS/.KQ suffix.
func IsKoreanSymbol(symbol string) bool {
	if len(symbol) == 6 && isAllDigits(symbol) {
		return true
	}
	if _, ok := krSymbolSet[symbol]; ok {
		return true
	}
	return strings.HasSuffix(symbol, ".KS") || strings.HasSuffix(symbol, ".KQ")
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MarketOf returns the market code for a symbol.
func MarketOf(symbol string) string {
	if IsKoreanSymbol(symbol) {
		return MarketKRW
	}
	return MarketUSD
}

// NameOf returns the display name for a known symbol, or the symbol itself.
func NameOf(symbol string) string {
	if n, ok := krNames[symbol]; ok {
		return n
	}
	if n, ok := usNames[symbol]; ok {
		return n
	}
	return symbol
}

// SeedPrice returns the fallback seed price for a symbol. Unknown symbols get
// a market-wide default.
func SeedPrice(symbol string) float64 {
	if p, ok := krSeedPrices[symbol]; ok {
		return p
	}
	if p, ok := usSeedPrices[symbol]; ok {
		return p
	}
	if IsKoreanSymbol(symbol) {
		return defaultKRSeed
	}
	return defaultUSSeed
}

// AllSymbols returns the full tracked universe, KR first.
func AllSymbols() []string {
	out := make([]string, 0, len(KRSymbols)+len(USSymbols))
	out = append(out, KRSymbols...)
	out = append(out, USSymbols...)
	return out
}

// TopKRSymbols returns the KR refresh batch.
func TopKRSymbols() []string { return KRSymbols[:refreshBatchSize] }

// TopUSSymbols returns the US refresh batch.
func TopUSSymbols() []string { return USSymbols[:refreshBatchSize] }
