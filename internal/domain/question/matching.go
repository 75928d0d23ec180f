package question

import "net/url"

// ══════════════════════════════════════════════════════════════════════════════
// MATCH STRATEGIES
// Поиск набора вопросов - это упорядоченный список чистых стратегий
// сопоставления. Резолвер перебирает их по порядку и останавливается
// на первой, давшей непустой результат. Стадии никогда не выполняются
// параллельно и не объединяют частичные результаты.
//
// Зачем три стадии: промежуточные слои маршрутизации могут дважды
// закодировать сегмент пути ("C/C++" приходит как "C%2FC%2B%2B"),
// а клиентский каталог может разойтись со значениями в базе по регистру.
// ══════════════════════════════════════════════════════════════════════════════

// MatchStage идентифицирует стадию сопоставления.
type MatchStage string

const (
	// StageExact - запрос со строками ровно как получены.
	StageExact MatchStage = "exact"

	// StageDecoded - запрос с percent-декодированным доменом.
	StageDecoded MatchStage = "decoded"

	// StageCaseInsensitive - сравнение всей строки без учёта регистра
	// и для домена, и для уровня.
	StageCaseInsensitive MatchStage = "case_insensitive"
)

// MatchQuery - план запроса к хранилищу, построенный одной стадией.
type MatchQuery struct {
	// Domain - домен для поиска.
	Domain Domain

	// Level - уровень для поиска (пустой при поиске по всему домену).
	Level Level

	// CaseInsensitive - сравнивать без учёта регистра.
	CaseInsensitive bool
}

// MatchStrategy - одна чистая стадия сопоставления:
// (сырой домен, сырой уровень) -> план запроса.
type MatchStrategy struct {
	// Stage - идентификатор стадии.
	Stage MatchStage

	// Build строит план запроса. Возвращает ok=false, если стадия
	// неприменима (например, декодирование ничего не меняет).
	Build func(rawDomain, rawLevel string) (MatchQuery, bool)
}

// LookupStrategies возвращает упорядоченный список стадий для поиска
// набора вопросов по (домен, уровень): exact -> decoded -> case-insensitive.
func LookupStrategies() []MatchStrategy {
	return []MatchStrategy{
		exactStrategy(),
		decodedStrategy(),
		caseInsensitiveStrategy(),
	}
}

// PracticeStrategies возвращает стадии для поиска по всему домену
// (уровень игнорируется): exact -> decoded.
func PracticeStrategies() []MatchStrategy {
	return []MatchStrategy{
		exactStrategy(),
		decodedStrategy(),
	}
}

func exactStrategy() MatchStrategy {
	return MatchStrategy{
		Stage: StageExact,
		Build: func(rawDomain, rawLevel string) (MatchQuery, bool) {
			return MatchQuery{
				Domain: Domain(rawDomain),
				Level:  Level(rawLevel),
			}, true
		},
	}
}

func decodedStrategy() MatchStrategy {
	return MatchStrategy{
		Stage: StageDecoded,
		Build: func(rawDomain, rawLevel string) (MatchQuery, bool) {
			// PathUnescape, не QueryUnescape: в сегменте пути "+" -
			// буквальный символ, а не пробел ("C/C++" должен выжить).
			decoded, err := url.PathUnescape(rawDomain)
			if err != nil || decoded == rawDomain {
				return MatchQuery{}, false
			}
			return MatchQuery{
				Domain: Domain(decoded),
				Level:  Level(rawLevel),
			}, true
		},
	}
}

func caseInsensitiveStrategy() MatchStrategy {
	return MatchStrategy{
		Stage: StageCaseInsensitive,
		Build: func(rawDomain, rawLevel string) (MatchQuery, bool) {
			// Сравниваем декодированный вариант, если он есть:
			// клиент, отправивший "c%2Fc%2B%2B", ожидает найти "C/C++".
			domain := rawDomain
			if decoded, err := url.PathUnescape(rawDomain); err == nil {
				domain = decoded
			}
			return MatchQuery{
				Domain:          Domain(domain),
				Level:           Level(rawLevel),
				CaseInsensitive: true,
			}, true
		},
	}
}
