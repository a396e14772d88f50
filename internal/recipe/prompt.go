package recipe

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const defaultTitle = "美味食譜"

const systemPrompt = `你係一個創意廚藝藝術家，創造嘅食譜唔只係食物，更係體驗。 
創造食譜時要考慮：
- 心情如何影響菜式嘅特色同呈現
- 如何透過食材同裝飾融入顏色主題
- 時段如何影響菜式風格同上菜方式
- 如何透過味道同呈現喚起所描述嘅記憶或情感

**重要：食譜要簡短精煉，避免冗長描述。**

必須包括：
1. 創意、引人入勝嘅食譜標題
2. 簡短介紹（一兩句，連接心情/顏色/情感）
3. 食材清單（含份量，盡量用符合顏色主題嘅食材）
4. 清晰嘅步驟說明（簡潔，每步一兩句）
5. 烹飪貼士或創意變化（簡短）
6. 準備時間、烹調時間、總時間
7. 上菜建議（簡短）

用繁體中文（粵語）寫，要簡潔、有創意、溫暖。食譜要簡短，重點突出，避免冗長描述。`

const genericPrompt = "創造一個創意同啟發性嘅食譜，令人驚喜同開心！"

// colorNames maps the color choices to English for the fallback image prompt.
var colorNames = map[string]string{
	"紅色":  "red",
	"橙色":  "orange",
	"黃色":  "yellow",
	"綠色":  "green",
	"藍色":  "blue",
	"紫色":  "purple",
	"粉紅色": "pink",
	"白色":  "white",
	"黑色":  "black",
	"金色":  "gold",
}

func orAny(s string) string {
	if s == "" {
		return "任何"
	}
	return s
}

// UserPrompt builds the recipe request from the non-empty preferences.
func UserPrompt(p Preferences) string {
	var parts []string
	if p.Mood != "" {
		parts = append(parts, "心情："+p.Mood)
	}
	if p.Color != "" {
		parts = append(parts, "啟發顏色："+p.Color)
	}
	if p.TimeOfDay != "" {
		parts = append(parts, "時段："+p.TimeOfDay)
	}
	if v := strings.TrimSpace(p.Ingredients); v != "" {
		parts = append(parts, "現有食材："+v)
	}
	if v := strings.TrimSpace(p.Memory); v != "" {
		parts = append(parts, "記憶/情感/故事："+v)
	}
	if v := strings.TrimSpace(p.Cuisine); v != "" {
		parts = append(parts, "菜系風格："+v)
	}
	if len(parts) == 0 {
		return genericPrompt
	}

	return fmt.Sprintf("根據以下元素創造一個創意食譜：\n%s\n\n食譜應該反映心情（%s），融入顏色主題（%s），並喚起所描述嘅感覺。要特別同難忘！",
		strings.Join(parts, "\n"), orAny(p.Mood), orAny(p.Color))
}

var (
	leadingHashes = regexp.MustCompile(`^#+\s*`)
	boldMarkers   = regexp.MustCompile(`\*\*`)
)

// Title picks the recipe title from the first five lines of text.
func Title(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || utf8.RuneCountInString(line) >= 100 {
			continue
		}
		title := leadingHashes.ReplaceAllString(line, "")
		title = strings.TrimSpace(boldMarkers.ReplaceAllString(title, ""))
		if title != "" {
			return title
		}
	}
	return defaultTitle
}

// ImagePromptRequest asks the model to write an image prompt for the recipe.
func ImagePromptRequest(title, recipe string, p Preferences) string {
	return fmt.Sprintf(`為呢個食譜創造一個詳細嘅圖片生成提示：%s

考慮：
- 心情：%s
- 顏色主題：%s
- 時段：%s
- 食譜描述：%s...

只返回一個簡潔、詳細嘅圖片提示（唔好解釋），適合用嚟創造一張吸引、專業嘅食物照片。用繁體中文寫圖片提示。`,
		title, orAny(p.Mood), orAny(p.Color), orAny(p.TimeOfDay), truncateRunes(recipe, 200))
}

// FallbackImagePrompt is the plain English prompt used when the first image
// attempt fails.
func FallbackImagePrompt(title, color string) string {
	prompt := "A beautiful, professional food photograph of " + title
	if name := colorNames[color]; name != "" {
		prompt += " with " + name + " color accents"
	}
	return prompt + ", appetizing, well-lit, high quality"
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
