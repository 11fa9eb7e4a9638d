package service

import (
	"hash/fnv"
)

// Fortune 当日运势
type Fortune struct {
	Day      string `json:"day"`
	Luck     string `json:"luck"`
	Item     string `json:"item"`
	Color    string `json:"color"`
	ColorHex string `json:"color_hex"`
}

type fortuneColor struct {
	name string
	hex  string
}

var (
	fortuneLucks  = []string{"大吉", "中吉", "小吉", "末吉"}
	fortuneItems  = []string{"ペン", "本", "カバン", "傘"}
	fortuneColors = []fortuneColor{
		{"赤", "#ef4444"},
		{"青", "#3b82f6"},
		{"緑", "#22c55e"},
		{"黄", "#eab308"},
	}
)

// DailyFortune 以日期键为种子的确定性结果（FNV-1a，非密码学用途）
func DailyFortune(day string) Fortune {
	pick := func(salt string, n int) int {
		h := fnv.New32a()
		_, _ = h.Write([]byte(day + "|" + salt))
		return int(h.Sum32() % uint32(n))
	}
	c := fortuneColors[pick("color", len(fortuneColors))]
	return Fortune{
		Day:      day,
		Luck:     fortuneLucks[pick("luck", len(fortuneLucks))],
		Item:     fortuneItems[pick("item", len(fortuneItems))],
		Color:    c.name,
		ColorHex: c.hex,
	}
}
