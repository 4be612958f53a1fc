package query

// Фиксированные словари парсера: fiat-валюты, стоп-слова, числительные.

// fiats - членство в этом множестве отличает фиат от крипто-токена
var fiats = map[string]bool{
	"usd": true, "eur": true, "gbp": true, "jpy": true, "cny": true,
	"rub": true, "inr": true, "krw": true, "cad": true, "aud": true,
	"chf": true, "sek": true, "nok": true, "dkk": true, "pln": true,
	"czk": true, "try": true, "brl": true, "mxn": true, "zar": true,
	"sgd": true, "hkd": true, "nzd": true, "uah": true, "ils": true,
	"aed": true, "sar": true, "idr": true, "php": true, "thb": true,
}

// stopWords - артикли, предлоги и слова-наполнители запроса.
// "rice" поглощает частую опечатку "price" без первой буквы.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"of": true, "in": true, "on": true, "at": true, "for": true, "to": true,
	"is": true, "are": true, "was": true, "be": true,
	"what": true, "whats": true, "how": true, "much": true, "many": true,
	"do": true, "does": true, "can": true, "you": true, "your": true,
	"please": true, "show": true, "me": true, "my": true, "tell": true,
	"give": true, "us": true, "get": true,
	"today": true, "now": true, "current": true, "currently": true,
	"and": true, "or": true, "with": true, "about": true,
	"worth": true, "cost": true, "costs": true,
	"price": true, "prices": true, "rice": true, "value": true,
}

// numberWords - числительные прописью, zero..twenty
var numberWords = map[string]float64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18,
	"nineteen": 19, "twenty": 20,
}
