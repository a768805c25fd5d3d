package markup

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/go-telegram/bot/models"
	"github.com/reshetovitsme/keyword-reply-bot/internal/modules/filter/domain"
	"github.com/samber/lo"
)

// btnURLRegex matches [label](buttonurl:target) annotations. The scheme tag
// and the optional :same row marker are case-insensitive; malformed
// annotations simply fail to match and stay literal text.
var btnURLRegex = regexp.MustCompile(`(?i)\[([^\[]+?)\]\(buttonurl:(?://)?(.+?)(:same)?\)`)

// ParseButtons extracts inline button annotations from raw message text.
// Entity ranges supplied by Telegram are shifted by -offset so formatting
// still lines up after the caller stripped a command/keyword prefix, then the
// text is rendered to HTML and the annotations are removed in encounter
// order. The returned display text is whitespace-trimmed.
func ParseButtons(raw string, entities []models.MessageEntity, offset int) (string, []domain.Button) {
	text := EntitiesToHTML(raw, entities, offset)

	matches := btnURLRegex.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return strings.TrimSpace(text), nil
	}

	var (
		out     strings.Builder
		buttons []domain.Button
		pos     int
	)
	for _, m := range matches {
		out.WriteString(text[pos:m[0]])
		pos = m[1]

		btn := domain.Button{
			Label:   text[m[2]:m[3]],
			URL:     text[m[4]:m[5]],
			SameRow: m[6] != -1,
		}
		buttons = append(buttons, btn)
	}
	out.WriteString(text[pos:])

	return strings.TrimSpace(out.String()), buttons
}

// SerializeButtons re-emits the annotation syntax for a parsed reply so a
// stored filter can be exported or edited. Parsing the result yields the
// same display text and button list back.
func SerializeButtons(text string, buttons []domain.Button) string {
	var b strings.Builder
	b.WriteString(text)
	for _, btn := range buttons {
		b.WriteString(fmt.Sprintf("\n[%s](buttonurl:%s%s)",
			btn.Label, btn.URL, lo.Ternary(btn.SameRow, ":same", "")))
	}
	return b.String()
}

// BuildKeyboard groups buttons into inline keyboard rows: a SameRow button
// attaches to the previous row, every other button starts a new row.
// Returns nil for an empty button list so callers can leave reply markup
// unset.
func BuildKeyboard(buttons []domain.Button) *models.InlineKeyboardMarkup {
	if len(buttons) == 0 {
		return nil
	}

	var rows [][]models.InlineKeyboardButton
	for _, btn := range buttons {
		kb := models.InlineKeyboardButton{Text: btn.Label, URL: btn.URL}
		if btn.SameRow && len(rows) > 0 {
			rows[len(rows)-1] = append(rows[len(rows)-1], kb)
		} else {
			rows = append(rows, []models.InlineKeyboardButton{kb})
		}
	}

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// EntitiesToHTML renders message text with its formatting entities as HTML,
// escaping everything outside entity tags. Entity offsets are shifted by
// -offset first; ranges that fall outside the remaining text are ignored, as
// are entities overlapping an earlier one. Entity ranges count UTF-16 code
// units, as the Bot API does, so emoji and other surrogate-pair characters
// don't shift the boundaries.
func EntitiesToHTML(text string, entities []models.MessageEntity, offset int) string {
	if len(entities) == 0 {
		return html.EscapeString(text)
	}

	units := utf16.Encode([]rune(text))

	shifted := make([]models.MessageEntity, 0, len(entities))
	for _, ent := range entities {
		ent.Offset -= offset
		if ent.Offset < 0 || ent.Length <= 0 || ent.Offset+ent.Length > len(units) {
			continue
		}
		shifted = append(shifted, ent)
	}
	sort.SliceStable(shifted, func(i, j int) bool {
		return shifted[i].Offset < shifted[j].Offset
	})

	var out strings.Builder
	pos := 0
	for _, ent := range shifted {
		if ent.Offset < pos {
			continue
		}
		openTag, closeTag := entityTags(ent)
		if openTag == "" {
			continue
		}
		out.WriteString(html.EscapeString(string(utf16.Decode(units[pos:ent.Offset]))))
		out.WriteString(openTag)
		out.WriteString(html.EscapeString(string(utf16.Decode(units[ent.Offset : ent.Offset+ent.Length]))))
		out.WriteString(closeTag)
		pos = ent.Offset + ent.Length
	}
	out.WriteString(html.EscapeString(string(utf16.Decode(units[pos:]))))

	return out.String()
}

// UTF16Len reports the length of s in UTF-16 code units, the unit Bot API
// entity offsets are expressed in.
func UTF16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}

func entityTags(ent models.MessageEntity) (string, string) {
	switch ent.Type {
	case "bold":
		return "<b>", "</b>"
	case "italic":
		return "<i>", "</i>"
	case "underline":
		return "<u>", "</u>"
	case "strikethrough":
		return "<s>", "</s>"
	case "spoiler":
		return `<span class="tg-spoiler">`, "</span>"
	case "code":
		return "<code>", "</code>"
	case "pre":
		return "<pre>", "</pre>"
	case "text_link":
		return fmt.Sprintf(`<a href="%s">`, html.EscapeString(ent.URL)), "</a>"
	}
	return "", ""
}
