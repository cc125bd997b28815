// Package subjects holds the static catalog of quiz subjects.
package subjects

// Subject describes one subject of the masters exam question bank.
type Subject struct {
	Key         string // stable key used in callbacks and session rows
	Name        string // full display name
	ShortName   string // short label for compact lists
	Emoji       string
	Description string
	Folder      string // question bank folder holding the subject's parts
}

var catalog = []Subject{
	{
		Key:         "ai",
		Name:        "Artificial Intelligence",
		ShortName:   "AI",
		Emoji:       "🤖",
		Description: "AI concepts and intelligent algorithms",
		Folder:      "ai_quizzes",
	},
	{
		Key:         "networks",
		Name:        "Computer Networks",
		ShortName:   "Networks",
		Emoji:       "📡",
		Description: "Network protocols and communication",
		Folder:      "networks_quizzes",
	},
	{
		Key:         "oop",
		Name:        "Object-Oriented Programming",
		ShortName:   "OOP",
		Emoji:       "👨‍💻",
		Description: "OOP concepts and object design",
		Folder:      "oop_quizzes",
	},
	{
		Key:         "se",
		Name:        "Software Engineering",
		ShortName:   "SE",
		Emoji:       "🛠",
		Description: "Software lifecycle and design",
		Folder:      "se_quizzes",
	},
	{
		Key:         "ds_algo",
		Name:        "Data Structures & Algorithms",
		ShortName:   "DS & Algo",
		Emoji:       "📊",
		Description: "Fundamental and advanced data structures",
		Folder:      "ds_algo_quizzes",
	},
	{
		Key:         "os",
		Name:        "Operating Systems",
		ShortName:   "OS",
		Emoji:       "⚙️",
		Description: "Operating system concepts and scheduling",
		Folder:      "os_quizzes",
	},
}

// All returns the catalog in menu order.
func All() []Subject {
	return catalog
}

// Get returns the subject for a key.
func Get(key string) (Subject, bool) {
	for _, s := range catalog {
		if s.Key == key {
			return s, true
		}
	}
	return Subject{}, false
}

// Name returns the display name for a key, or the key itself if unknown.
// Used when rendering stats over historical session rows.
func Name(key string) string {
	if s, ok := Get(key); ok {
		return s.Name
	}
	return key
}

// Emoji returns the emoji for a key, with a generic fallback.
func Emoji(key string) string {
	if s, ok := Get(key); ok {
		return s.Emoji
	}
	return "📚"
}
