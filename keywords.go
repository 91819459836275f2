package petrag

import (
	"strings"
	"unicode"
)

var facilityKeywords = []string{
	"병원", "동물병원", "의원", "클리닉", "근처", "주변", "가까운", "위치", "어디",
	"찾아", "추천", "응급실", "24시", "야간", "주소", "전화번호", "영업",
	"hospital", "clinic", "vet", "nearby", "near", "where",
}

var symptomKeywords = []string{
	"기침", "구토", "토해", "토했", "설사", "혈변", "발열", "열이", "식욕", "아파", "아픈",
	"통증", "절뚝", "가려", "긁어", "재채기", "콧물", "눈곱", "충혈", "경련", "발작",
	"호흡", "헐떡", "출혈", "피가", "부어", "붓고", "탈모", "각질", "비듬", "무기력",
	"기운", "소변", "오줌", "변비", "증상", "혹이",
	"cough", "vomit", "diarrhea", "fever", "limp", "itch", "sneez", "seizure",
	"bleed", "letharg", "symptom", "pain",
}

var petKeywords = []string{
	"강아지", "고양이", "반려견", "반려묘", "반려동물", "새끼", "노령", "사료", "간식",
	"예방접종", "접종", "중성화", "산책", "피부", "털", "귀", "눈", "치아", "이빨",
	"체중", "심장", "관절", "슬개골", "구충", "심장사상충", "진드기", "벼룩",
	"dog", "cat", "puppy", "kitten", "vaccin", "neuter", "spay", "flea", "tick",
}

var catKeywords = []string{"고양이", "반려묘", "냥이", "cat", "kitten", "feline"}

var dogKeywords = []string{"강아지", "반려견", "멍멍이", "dog", "puppy", "canine"}

var disclaimerPhrases = []string{
	"수의사와 상담", "수의사 상담", "수의사의 진료", "전문가 상담", "전문가와 상담",
	"consult a veterinarian", "consult your veterinarian", "professional consultation",
}

var urgentPhrases = []string{
	"즉시", "응급", "바로 병원", "지체하지", "서둘러", "urgent", "emergency", "immediately",
}

// domainKeywords are the terms the lexical relevance heuristic compares on.
var domainKeywords = append(append([]string{}, symptomKeywords...), petKeywords...)

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '-')
	})
}

// keywordRatio is the share of tokens in text containing at least one of the keywords.
func keywordRatio(text string, keywords []string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	var hits int
	for _, token := range tokens {
		if containsAny(token, keywords) {
			hits++
		}
	}

	return float64(hits) / float64(len(tokens))
}

func containsAny(text string, keywords []string) bool {
	text = strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func keywordsIn(text string, keywords []string) map[string]struct{} {
	text = strings.ToLower(text)
	found := map[string]struct{}{}
	for _, k := range keywords {
		if strings.Contains(text, k) {
			found[k] = struct{}{}
		}
	}
	return found
}
