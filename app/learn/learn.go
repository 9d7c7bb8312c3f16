// Package learn classifies articles as educational and builds
// supplementary learning links for them. Fixed keyword tables, substring
// matching, no model involved.
package learn

import (
	"net/url"
	"regexp"
	"strings"

	"newsdigest/app/store"
)

// Topic is a coarse subject bucket used to pick learning platforms.
type Topic string

// Topic buckets, checked in priority order.
const (
	TopicProgramming Topic = "programming"
	TopicScience     Topic = "science"
	TopicTechnology  Topic = "technology"
	TopicGeneral     Topic = "general"
)

// educationalKeywords indicate learning content; a match in the title
// weighs double.
var educationalKeywords = []string{
	"learn", "tutorial", "course", "education", "study", "training",
	"guide", "teaching", "lesson", "university", "college", "school",
	"research", "science", "technology", "programming", "coding",
	"development", "engineering", "mathematics", "physics", "chemistry",
	"biology", "history", "language", "skill", "knowledge",
}

var topicKeywords = []struct {
	topic Topic
	words []string
}{
	{TopicProgramming, []string{"python", "javascript", "java", "code", "programming"}},
	{TopicScience, []string{"physics", "chemistry", "biology", "science"}},
	{TopicTechnology, []string{"ai", "machine learning", "technology", "computer"}},
}

// platforms maps a topic to learning platforms worth linking.
var platforms = map[Topic][]string{
	TopicProgramming: {
		"https://www.freecodecamp.org/learn",
		"https://www.codecademy.com",
		"https://www.w3schools.com",
	},
	TopicScience: {
		"https://www.khanacademy.org/science",
		"https://www.coursera.org",
		"https://www.edx.org",
	},
	TopicTechnology: {
		"https://www.udemy.com",
		"https://www.pluralsight.com",
		"https://www.linkedin.com/learning",
	},
	TopicGeneral: {
		"https://www.youtube.com/results?search_query=",
		"https://www.coursera.org",
		"https://www.khanacademy.org",
	},
}

var wordRe = regexp.MustCompile(`\w+`)

var searchStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {},
}

// IsEducational reports whether the article looks like learning
// content: each educational keyword present in the text scores 1, or 2
// when it occurs in the title; total of 2 or more qualifies.
func IsEducational(article store.Article) bool {
	return EducationalScore(article) >= 2
}

// EducationalScore computes the raw keyword score behind IsEducational.
func EducationalScore(article store.Article) int {
	title := strings.ToLower(article.Title)
	description := strings.ToLower(article.Description)
	content := strings.ToLower(article.Content)

	fullText := title + " " + description + " " + content

	score := 0
	for _, keyword := range educationalKeywords {
		if !strings.Contains(fullText, keyword) {
			continue
		}
		if strings.Contains(title, keyword) {
			score += 2
		} else {
			score++
		}
	}

	return score
}

// DetectTopic picks the first bucket with any keyword occurring in the
// lowercased title+description; general when none matches.
func DetectTopic(title, description string) Topic {
	text := strings.ToLower(title + " " + description)

	for _, bucket := range topicKeywords {
		for _, w := range bucket.words {
			if strings.Contains(text, w) {
				return bucket.topic
			}
		}
	}

	return TopicGeneral
}

// SearchTerms strips noise words from the title and returns up to three
// of the remaining terms, space-joined, for use in a search link.
func SearchTerms(title string) string {
	words := wordRe.FindAllString(strings.ToLower(title), -1)

	var keyWords []string
	for _, w := range words {
		if _, stop := searchStopWords[w]; stop || len(w) <= 3 {
			continue
		}
		keyWords = append(keyWords, w)
		if len(keyWords) == 3 {
			break
		}
	}

	return strings.Join(keyWords, " ")
}

// TutorialLink builds a YouTube tutorial search link for the article.
func TutorialLink(article store.Article) string {
	terms := SearchTerms(article.Title)
	return "https://www.youtube.com/results?search_query=" + url.QueryEscape(terms+" tutorial")
}

// CourseraLink returns a Coursera search link for the topic.
func CourseraLink(topic string) string {
	return "https://www.coursera.org/search?query=" + url.QueryEscape(topic)
}

// KhanAcademyLink returns a Khan Academy search link for the topic.
func KhanAcademyLink(topic string) string {
	return "https://www.khanacademy.org/search?page_search_query=" + url.QueryEscape(topic)
}

// YouTubePlaylistLink returns a YouTube search link filtered to playlists.
func YouTubePlaylistLink(topic string) string {
	return "https://www.youtube.com/results?search_query=" +
		url.QueryEscape(topic+" full course") + "&sp=EgIQAw%253D%253D"
}

// Platforms returns learning platforms for the topic.
func Platforms(topic Topic) []string {
	if links, ok := platforms[topic]; ok {
		return links
	}
	return platforms[TopicGeneral]
}
