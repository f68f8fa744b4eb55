package phoneme

// entry is one mora: an onset written in both inventories plus a vowel.
// vowel is one of 'a', 'i', 'u', 'e', 'o'.
type entry struct {
	kana   string
	ipa    string
	romaji string
	vowel  byte
}

func e(kana, ipa, romaji string, vowel byte) entry {
	return entry{kana: kana, ipa: ipa, romaji: romaji, vowel: vowel}
}

// moraTable lists every mora the mapper recognizes. Two-kana entries are
// matched before single kana (longest match).
var moraTable = []entry{
	// 拗音
	e("キャ", "kʲ", "ky", 'a'), e("キュ", "kʲ", "ky", 'u'), e("キョ", "kʲ", "ky", 'o'),
	e("ギャ", "gʲ", "gy", 'a'), e("ギュ", "gʲ", "gy", 'u'), e("ギョ", "gʲ", "gy", 'o'),
	e("シャ", "ɕ", "sh", 'a'), e("シュ", "ɕ", "sh", 'u'), e("ショ", "ɕ", "sh", 'o'),
	e("ジャ", "ʥ", "j", 'a'), e("ジュ", "ʥ", "j", 'u'), e("ジョ", "ʥ", "j", 'o'),
	e("チャ", "ʨ", "ch", 'a'), e("チュ", "ʨ", "ch", 'u'), e("チョ", "ʨ", "ch", 'o'),
	e("ヂャ", "ʥ", "j", 'a'), e("ヂュ", "ʥ", "j", 'u'), e("ヂョ", "ʥ", "j", 'o'),
	e("ニャ", "ɲ", "ny", 'a'), e("ニュ", "ɲ", "ny", 'u'), e("ニョ", "ɲ", "ny", 'o'),
	e("ヒャ", "ç", "hy", 'a'), e("ヒュ", "ç", "hy", 'u'), e("ヒョ", "ç", "hy", 'o'),
	e("ビャ", "bʲ", "by", 'a'), e("ビュ", "bʲ", "by", 'u'), e("ビョ", "bʲ", "by", 'o'),
	e("ピャ", "pʲ", "py", 'a'), e("ピュ", "pʲ", "py", 'u'), e("ピョ", "pʲ", "py", 'o'),
	e("ミャ", "mʲ", "my", 'a'), e("ミュ", "mʲ", "my", 'u'), e("ミョ", "mʲ", "my", 'o'),
	e("リャ", "ɾʲ", "ry", 'a'), e("リュ", "ɾʲ", "ry", 'u'), e("リョ", "ɾʲ", "ry", 'o'),
	// 外来語
	e("ティ", "t", "t", 'i'), e("ディ", "d", "d", 'i'),
	e("トゥ", "t", "t", 'u'), e("ドゥ", "d", "d", 'u'),
	e("テュ", "tʲ", "ty", 'u'), e("デュ", "dʲ", "dy", 'u'),
	e("ファ", "ɸ", "f", 'a'), e("フィ", "ɸ", "f", 'i'), e("フェ", "ɸ", "f", 'e'), e("フォ", "ɸ", "f", 'o'),
	e("フュ", "ɸʲ", "fy", 'u'),
	e("チェ", "ʨ", "ch", 'e'), e("シェ", "ɕ", "sh", 'e'), e("ジェ", "ʥ", "j", 'e'),
	e("ウィ", "w", "w", 'i'), e("ウェ", "w", "w", 'e'), e("ウォ", "w", "w", 'o'),
	e("ヴァ", "v", "v", 'a'), e("ヴィ", "v", "v", 'i'), e("ヴェ", "v", "v", 'e'), e("ヴォ", "v", "v", 'o'),
	e("ツァ", "ʦ", "ts", 'a'), e("ツィ", "ʦ", "ts", 'i'), e("ツェ", "ʦ", "ts", 'e'), e("ツォ", "ʦ", "ts", 'o'),
	e("イェ", "j", "y", 'e'),
	e("クァ", "kʷ", "kw", 'a'), e("グァ", "gʷ", "gw", 'a'),

	// ア行
	e("ア", "", "", 'a'), e("イ", "", "", 'i'), e("ウ", "", "", 'u'), e("エ", "", "", 'e'), e("オ", "", "", 'o'),
	// カ行・ガ行
	e("カ", "k", "k", 'a'), e("キ", "k", "k", 'i'), e("ク", "k", "k", 'u'), e("ケ", "k", "k", 'e'), e("コ", "k", "k", 'o'),
	e("ガ", "g", "g", 'a'), e("ギ", "g", "g", 'i'), e("グ", "g", "g", 'u'), e("ゲ", "g", "g", 'e'), e("ゴ", "g", "g", 'o'),
	// サ行・ザ行
	e("サ", "s", "s", 'a'), e("シ", "ɕ", "sh", 'i'), e("ス", "s", "s", 'u'), e("セ", "s", "s", 'e'), e("ソ", "s", "s", 'o'),
	e("ザ", "z", "z", 'a'), e("ジ", "ʥ", "j", 'i'), e("ズ", "z", "z", 'u'), e("ゼ", "z", "z", 'e'), e("ゾ", "z", "z", 'o'),
	// タ行・ダ行
	e("タ", "t", "t", 'a'), e("チ", "ʨ", "ch", 'i'), e("ツ", "ʦ", "ts", 'u'), e("テ", "t", "t", 'e'), e("ト", "t", "t", 'o'),
	e("ダ", "d", "d", 'a'), e("ヂ", "ʥ", "j", 'i'), e("ヅ", "z", "z", 'u'), e("デ", "d", "d", 'e'), e("ド", "d", "d", 'o'),
	// ナ行
	e("ナ", "n", "n", 'a'), e("ニ", "ɲ", "n", 'i'), e("ヌ", "n", "n", 'u'), e("ネ", "n", "n", 'e'), e("ノ", "n", "n", 'o'),
	// ハ行・バ行・パ行
	e("ハ", "h", "h", 'a'), e("ヒ", "ç", "h", 'i'), e("フ", "ɸ", "f", 'u'), e("ヘ", "h", "h", 'e'), e("ホ", "h", "h", 'o'),
	e("バ", "b", "b", 'a'), e("ビ", "b", "b", 'i'), e("ブ", "b", "b", 'u'), e("ベ", "b", "b", 'e'), e("ボ", "b", "b", 'o'),
	e("パ", "p", "p", 'a'), e("ピ", "p", "p", 'i'), e("プ", "p", "p", 'u'), e("ペ", "p", "p", 'e'), e("ポ", "p", "p", 'o'),
	// マ行
	e("マ", "m", "m", 'a'), e("ミ", "m", "m", 'i'), e("ム", "m", "m", 'u'), e("メ", "m", "m", 'e'), e("モ", "m", "m", 'o'),
	// ヤ行
	e("ヤ", "j", "y", 'a'), e("ユ", "j", "y", 'u'), e("ヨ", "j", "y", 'o'),
	// ラ行
	e("ラ", "ɾ", "r", 'a'), e("リ", "ɾ", "r", 'i'), e("ル", "ɾ", "r", 'u'), e("レ", "ɾ", "r", 'e'), e("ロ", "ɾ", "r", 'o'),
	// ワ行
	e("ワ", "w", "w", 'a'), e("ヰ", "", "", 'i'), e("ヱ", "", "", 'e'), e("ヲ", "", "", 'o'),
	// 小文字母音 (外来語フォールバック)
	e("ァ", "", "", 'a'), e("ィ", "", "", 'i'), e("ゥ", "", "", 'u'), e("ェ", "", "", 'e'), e("ォ", "", "", 'o'),
	e("ャ", "j", "y", 'a'), e("ュ", "j", "y", 'u'), e("ョ", "j", "y", 'o'), e("ヮ", "w", "w", 'a'),
	// ヴ
	e("ヴ", "v", "v", 'u'),
}

var (
	moraMap2 map[string]entry
	moraMap1 map[string]entry
)

func init() {
	moraMap2 = make(map[string]entry)
	moraMap1 = make(map[string]entry)
	for _, en := range moraTable {
		if len([]rune(en.kana)) == 2 {
			moraMap2[en.kana] = en
		} else {
			moraMap1[en.kana] = en
		}
	}
}

var ipaVowels = map[byte]string{'a': "a", 'i': "i", 'u': "ɯ", 'e': "e", 'o': "o"}

// devoiced vowels carry a combining ring below.
var ipaDevoiced = map[byte]string{'i': "i\u0325", 'u': "ɯ\u0325"}

// voiceless lists IPA onsets without voicing.
var voiceless = map[string]bool{
	"k": true, "kʲ": true, "kʷ": true,
	"s": true, "ɕ": true,
	"t": true, "tʲ": true, "ʨ": true, "ʦ": true,
	"h": true, "ç": true, "ɸ": true, "ɸʲ": true,
	"p": true, "pʲ": true,
}

// punctTable folds Japanese punctuation to ASCII-ish symbols.
var punctTable = map[rune]string{
	'。': ".", '．': ".", '.': ".",
	'、': ",", '，': ",", ',': ",",
	'！': "!", '!': "!",
	'？': "?", '?': "?",
	'「': "“", '『': "“", '」': "”", '』': "”",
	'（': "(", '(': "(", '）': ")", ')': ")",
	'：': ":", ':': ":",
	'；': ";", ';': ";",
	'…': "…", '‥': "…",
	'〜': "~", '～': "~", '~': "~",
	'・': "",
	'—': "—", '―': "—",
	'"': "\"", '\'': "'",
}
