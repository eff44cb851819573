// Package classify 根据会议背景文本识别相关行业
package classify

import (
	"strings"
	"unicode"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/catalog"
)

// Classifier 基于关键词表的行业分类器，无状态、可并发使用
type Classifier struct {
	industries []catalog.Industry
}

// New 创建分类器
func New(cat *catalog.Catalog) *Classifier {
	return &Classifier{industries: cat.Industries}
}

// Classify 返回文本命中的行业标签，按目录顺序排列，可能为空
func (c *Classifier) Classify(text string) []string {
	lower := strings.ToLower(text)
	tags := make([]string, 0)
	for _, ind := range c.industries {
		for _, kw := range ind.Keywords {
			if MatchKeyword(lower, kw) {
				tags = append(tags, ind.Tag)
				break
			}
		}
	}
	return tags
}

// MatchKeyword 判断小写文本中是否以完整词（或词组）形式出现关键词
// 关键词两侧必须是非字母数字字符或文本边界，避免 "ai" 命中 "maintain"
func MatchKeyword(lowerText, keyword string) bool {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return false
	}
	for start := 0; start < len(lowerText); {
		idx := strings.Index(lowerText[start:], kw)
		if idx < 0 {
			return false
		}
		begin := start + idx
		end := begin + len(kw)
		if boundaryBefore(lowerText, begin) && boundaryAfter(lowerText, end) {
			return true
		}
		start = begin + 1
	}
	return false
}

// MatchAny 任一关键词命中即返回 true
func MatchAny(lowerText string, keywords []string) bool {
	for _, kw := range keywords {
		if MatchKeyword(lowerText, kw) {
			return true
		}
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r := lastRune(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r := []rune(s[i:])[0]
	return !isWordRune(r)
}

func lastRune(s string) rune {
	runes := []rune(s)
	return runes[len(runes)-1]
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
