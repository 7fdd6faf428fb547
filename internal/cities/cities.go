package cities

import (
	"sort"
	"strings"
)

// aliases maps ASCII city tokens to the official CWA location names.
// The upstream API requires the traditional-Chinese name verbatim.
// Initialized once, never mutated after package init.
var aliases = map[string]string{
	"taipei":        "臺北市",
	"newtaipei":     "新北市",
	"taoyuan":       "桃園市",
	"taichung":      "臺中市",
	"tainan":        "臺南市",
	"kaohsiung":     "高雄市",
	"keelung":       "基隆市",
	"hsinchu":       "新竹市",
	"hsinchucounty": "新竹縣",
	"miaoli":        "苗栗縣",
	"changhua":      "彰化縣",
	"nantou":        "南投縣",
	"yunlin":        "雲林縣",
	"chiayi":        "嘉義市",
	"chiayicounty":  "嘉義縣",
	"pingtung":      "屏東縣",
	"yilan":         "宜蘭縣",
	"hualien":       "花蓮縣",
	"taitung":       "臺東縣",
	"penghu":        "澎湖縣",
	"kinmen":        "金門縣",
	"lienchiang":    "連江縣",
}

// Resolve maps a city token to its canonical CWA location name.
// Matching is case-insensitive.
func Resolve(token string) (string, bool) {
	name, ok := aliases[strings.ToLower(token)]
	return name, ok
}

// Tokens returns the supported city tokens in sorted order.
func Tokens() []string {
	tokens := make([]string, 0, len(aliases))
	for token := range aliases {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}
