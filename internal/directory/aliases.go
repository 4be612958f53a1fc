package directory

// aliases - ручная таблица: частые тикеры и сокращения → канонический id.
// Попадание сюда полностью обходит fuzzy-поиск.
var aliases = map[string]string{
	"btc":   "bitcoin",
	"xbt":   "bitcoin",
	"eth":   "ethereum",
	"usdt":  "tether",
	"bnb":   "binancecoin",
	"sol":   "solana",
	"xrp":   "ripple",
	"usdc":  "usd-coin",
	"ada":   "cardano",
	"doge":  "dogecoin",
	"trx":   "tron",
	"ton":   "the-open-network",
	"dot":   "polkadot",
	"matic": "matic-network",
	"pol":   "matic-network",
	"ltc":   "litecoin",
	"shib":  "shiba-inu",
	"avax":  "avalanche-2",
	"link":  "chainlink",
	"uni":   "uniswap",
	"atom":  "cosmos",
	"xlm":   "stellar",
	"xmr":   "monero",
	"etc":   "ethereum-classic",
	"bch":   "bitcoin-cash",
	"fil":   "filecoin",
	"near":  "near",
	"algo":  "algorand",
	"vet":   "vechain",
	"icp":   "internet-computer",
	"apt":   "aptos",
	"arb":   "arbitrum",
	"op":    "optimism",
	"inj":   "injective-protocol",
	"aave":  "aave",
	"kas":   "kaspa",
	"sui":   "sui",
	"pepe":  "pepe",
	"dai":   "dai",
}
