package summary

// stopWords is a fixed English stop-word set, filtered out of the
// frequency table before scoring.
var stopWords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "by", "from", "as", "is", "was", "are", "been", "be",
	"have", "has", "had", "do", "does", "did", "will", "would", "should",
	"could", "may", "might", "must", "can", "this", "that", "these", "those",
	"i", "you", "he", "she", "it", "we", "they", "what", "which", "who",
	"when", "where", "why", "how", "all", "each", "every", "both", "few",
	"more", "most", "other", "some", "such", "no", "nor", "not", "only",
	"own", "same", "so", "than", "too", "very", "just", "said", "says",
}

// importantKeywords are domain-signal words that boost sentence scores
// and survive the stop-word filter.
var importantKeywords = []string{
	"new", "research", "study", "discover", "found", "reveal", "show",
	"develop", "create", "build", "launch", "announce", "release",
	"important", "significant", "major", "breakthrough", "innovation",
	"first", "latest", "update", "improve", "advance", "technology",
}
