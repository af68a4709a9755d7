package analysis

import (
	"regexp"
	"sort"
	"strings"

	"github.com/instalens/instalens/internal/model"
)

// Tokens are maximal alphabetic runs; anything else is a separator.
var wordPattern = regexp.MustCompile(`[a-zA-Z]+`)

// DefaultStopwords is the general English stopword list plus common chat
// filler. Platform-action phrases ("sent a photo", ...) are deliberately not
// here: those messages are SystemEvents and never reach word analysis.
var DefaultStopwords = []string{
	"the", "be", "to", "of", "and", "in", "that", "have", "it", "for",
	"not", "on", "with", "he", "as", "you", "do", "at", "this", "but",
	"his", "by", "from", "they", "we", "say", "her", "she", "or", "an",
	"will", "my", "one", "all", "would", "there", "their", "what", "so",
	"up", "out", "if", "about", "who", "get", "which", "go", "me", "when",
	"make", "can", "like", "time", "no", "just", "him", "know", "take",
	"people", "into", "year", "your", "good", "some", "could", "them",
	"see", "other", "than", "then", "now", "look", "only", "come", "its",
	"over", "think", "also", "back", "after", "use", "two", "how", "our",
	"work", "first", "well", "way", "even", "new", "want", "because",
	"any", "these", "give", "day", "most", "us", "is", "are", "was",
	"were", "been", "being", "has", "had", "does", "did", "should", "may",
	"might", "must", "yours", "yourself", "yourselves", "myself", "ours",
	"ourselves", "oh", "yeah", "yes", "ok", "okay", "haha", "lol", "omg",
	"wow", "hey", "hi", "hello", "bye", "goodbye", "thanks", "thank",
	"am", "did", "had", "has", "dont", "cant", "wont", "didnt", "doesnt",
	"shouldnt", "couldnt", "wouldnt", "im",
}

// stopwordSet builds the effective per-side stopword set: the configured
// base list, any extras, and the side's own name tokens. Only the speaker's
// own name is suppressed from their word list; the counterpart's name stays
// countable.
func stopwordSet(base, extra []string, selfName string) map[string]struct{} {
	set := make(map[string]struct{}, len(base)+len(extra)+4)
	for _, w := range base {
		set[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range extra {
		set[strings.ToLower(w)] = struct{}{}
	}
	if selfName != "" {
		lower := strings.ToLower(selfName)
		set[lower] = struct{}{}
		for _, part := range strings.Fields(lower) {
			set[part] = struct{}{}
		}
	}
	return set
}

// topWords tokenizes the joined plain-text contents of one side, lower-cases,
// drops tokens of length <= 2 and stopwords, and returns the n most frequent
// words. Ties break by first occurrence in the text.
func topWords(contents []string, stop map[string]struct{}, n int) []model.WordCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	seq := 0

	for _, content := range contents {
		for _, word := range wordPattern.FindAllString(strings.ToLower(content), -1) {
			if len(word) <= 2 {
				continue
			}
			if _, skip := stop[word]; skip {
				continue
			}
			if _, seen := counts[word]; !seen {
				firstSeen[word] = seq
				seq++
			}
			counts[word]++
		}
	}

	return topCounts(counts, firstSeen, n)
}

// topCounts ranks a frequency map by count descending, ties by first-seen
// order, and keeps the first n entries.
func topCounts(counts map[string]int, firstSeen map[string]int, n int) []model.WordCount {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return firstSeen[keys[i]] < firstSeen[keys[j]]
	})
	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}

	out := make([]model.WordCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, model.WordCount{Word: k, Count: counts[k]})
	}
	return out
}

// emojiStats aggregates an ordered emoji occurrence list into totals and a
// ranked top-n, using the same tie-break as word frequencies.
func emojiStats(emojis []string, n int) model.EmojiStats {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, e := range emojis {
		if _, seen := counts[e]; !seen {
			firstSeen[e] = i
		}
		counts[e]++
	}
	return model.EmojiStats{
		Total:  len(emojis),
		Unique: len(counts),
		Top:    topCounts(counts, firstSeen, n),
	}
}
