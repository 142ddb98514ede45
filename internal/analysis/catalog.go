package analysis

// Term is one keyword and the weight each occurrence contributes.
type Term struct {
	Word   string
	Weight float64
}

// Category is a label scored by its terms.
type Category struct {
	Label string
	Terms []Term
}

// Catalog is an ordered list of categories. Order breaks score ties.
type Catalog []Category

func terms(weight float64, words ...string) []Term {
	out := make([]Term, len(words))
	for i, w := range words {
		out[i] = Term{Word: w, Weight: weight}
	}
	return out
}

func category(label string, groups ...[]Term) Category {
	var all []Term
	for _, g := range groups {
		all = append(all, g...)
	}
	return Category{Label: label, Terms: all}
}

// DefaultEmotionCatalog scores emotions in journal text.
var DefaultEmotionCatalog = Catalog{
	category("Happy",
		terms(3, "happy", "joy", "joyful", "delighted", "thrilled"),
		terms(2, "glad", "cheerful", "wonderful", "amazing", "great"),
		terms(1, "smile", "smiled", "laugh", "laughed", "fun", "good", "nice")),
	category("Excited",
		terms(3, "excited", "exciting", "ecstatic", "pumped"),
		terms(2, "eager", "thrilling", "can't wait", "energized"),
		terms(1, "finally", "new")),
	category("Grateful",
		terms(3, "grateful", "thankful", "gratitude", "blessed"),
		terms(2, "appreciate", "appreciated", "lucky", "fortunate")),
	category("Calm",
		terms(3, "calm", "peaceful", "relaxed", "serene"),
		terms(2, "content", "rested", "quiet", "tranquil"),
		terms(1, "slow", "gentle")),
	category("Hopeful",
		terms(3, "hopeful", "optimistic", "hope"),
		terms(2, "looking forward", "believe", "promising"),
		terms(1, "maybe", "tomorrow")),
	category("Motivated",
		terms(3, "motivated", "determined", "driven", "inspired"),
		terms(2, "focused", "productive", "ambitious", "committed")),
	category("Proud",
		terms(3, "proud", "accomplished", "achieved"),
		terms(2, "succeeded", "nailed", "won", "managed")),
	category("Loved",
		terms(3, "loved", "love", "cared", "adored"),
		terms(2, "hug", "hugged", "supported", "close")),
	category("Curious",
		terms(3, "curious", "wonder", "wondering", "fascinated"),
		terms(2, "interested", "intrigued", "explore", "exploring"),
		terms(1, "question", "why")),
	category("Reflective",
		terms(3, "reflective", "reflecting", "thoughtful", "pondering"),
		terms(2, "realized", "thinking", "remember", "remembered", "nostalgic")),
	category("Sad",
		terms(3, "sad", "unhappy", "depressed", "heartbroken", "miserable"),
		terms(2, "cry", "cried", "crying", "tears", "down", "blue"),
		terms(1, "miss", "missed", "lost")),
	category("Anxious",
		terms(3, "anxious", "anxiety", "worried", "nervous", "panic"),
		terms(2, "worry", "afraid", "scared", "uneasy", "dread"),
		terms(1, "uncertain", "what if")),
	category("Stressed",
		terms(3, "stressed", "stress", "overwhelmed", "pressure"),
		terms(2, "hectic", "swamped", "tense", "deadline", "deadlines"),
		terms(1, "busy", "rushed")),
	category("Angry",
		terms(3, "angry", "furious", "mad", "rage", "livid"),
		terms(2, "hate", "annoyed", "irritated", "resent")),
	category("Frustrated",
		terms(3, "frustrated", "frustrating", "stuck"),
		terms(2, "annoying", "fed up", "pointless", "useless")),
	category("Disappointed",
		terms(3, "disappointed", "disappointing", "letdown"),
		terms(2, "regret", "failed", "unfair")),
	category("Tired",
		terms(3, "tired", "exhausted", "drained", "burnout", "burned"),
		terms(2, "sleepy", "fatigue", "worn", "weary")),
	category("Lonely",
		terms(3, "lonely", "alone", "isolated"),
		terms(2, "left out", "nobody", "distant")),
	category("Confused",
		terms(3, "confused", "lost", "unsure"),
		terms(2, "unclear", "puzzled", "torn")),
}

// DefaultThemeCatalog scores recurring topics in journal text.
var DefaultThemeCatalog = Catalog{
	category("Work",
		terms(3, "work", "job", "career", "office", "boss"),
		terms(2, "meeting", "meetings", "colleague", "colleagues", "coworker", "coworkers",
			"project", "projects", "client", "clients", "promotion", "interview", "salary"),
		terms(1, "deadline", "deadlines", "email", "emails", "task", "tasks")),
	category("Relationships",
		terms(3, "relationship", "partner", "friend", "friends", "family"),
		terms(2, "mom", "dad", "mother", "father", "sister", "brother", "wife", "husband",
			"girlfriend", "boyfriend", "kids", "children", "son", "daughter"),
		terms(1, "together", "date", "talked", "call")),
	category("Health",
		terms(3, "health", "exercise", "workout", "gym", "doctor"),
		terms(2, "run", "running", "sleep", "slept", "sick", "diet", "yoga", "meditation", "therapy"),
		terms(1, "walk", "ate", "headache", "body")),
	category("Learning",
		terms(3, "learn", "learned", "learning", "study", "studied", "studying"),
		terms(2, "course", "class", "lesson", "skill", "skills", "practice", "exam"),
		terms(1, "book", "read", "reading", "research")),
	category("Personal Growth",
		terms(3, "growth", "grow", "improve", "improving", "habit", "habits"),
		terms(2, "change", "better", "mindset", "confidence", "progress"),
		terms(1, "myself", "self")),
	category("Goals",
		terms(3, "goal", "goals", "plan", "plans", "planning", "resolution"),
		terms(2, "achieve", "target", "milestone", "dream", "dreams")),
	category("Creativity",
		terms(3, "creative", "creativity", "art", "paint", "painting", "draw", "drawing"),
		terms(2, "music", "song", "writing", "write", "design", "idea", "ideas")),
	category("Finances",
		terms(3, "money", "budget", "finances", "savings", "debt"),
		terms(2, "rent", "bills", "expensive", "spent", "paycheck", "afford")),
	category("Balance",
		terms(3, "balance", "boundaries", "burnout", "overtime"),
		terms(2, "rest", "break", "vacation", "weekend", "recharge")),
	category("Time Management",
		terms(3, "schedule", "procrastinate", "procrastinating", "productivity"),
		terms(2, "time", "late", "busy", "routine", "calendar"),
		terms(1, "morning", "evening")),
	category("Home",
		terms(3, "home", "house", "apartment", "moving"),
		terms(2, "clean", "cleaning", "cook", "cooking", "garden", "chores")),
	category("Travel",
		terms(3, "travel", "trip", "vacation", "flight", "journey"),
		terms(2, "abroad", "beach", "hotel", "explore", "city")),
}
