package utils

import (
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/scythe504/sketchparty/internal"
)

var categoryWords = map[internal.WordCategory][]string{
	internal.CategoryAnimals:  {"cat", "dog", "elephant", "giraffe", "penguin", "kangaroo", "octopus", "butterfly", "rabbit", "turtle", "owl", "shark"},
	internal.CategoryFood:     {"pizza", "banana", "hamburger", "spaghetti", "sandwich", "pancake", "watermelon", "cupcake", "taco", "popcorn", "cheese", "donut"},
	internal.CategoryObjects:  {"umbrella", "scissors", "lamp", "clock", "backpack", "ladder", "key", "glasses", "candle", "pillow", "camera", "hammer"},
	internal.CategoryNature:   {"mountain", "volcano", "rainbow", "waterfall", "cactus", "tornado", "island", "forest", "lightning", "sunflower", "river", "cloud"},
	internal.CategorySports:   {"soccer", "basketball", "tennis", "surfing", "bowling", "skiing", "boxing", "archery", "golf", "skateboard", "karate", "hockey"},
	internal.CategoryVehicles: {"car", "bicycle", "helicopter", "submarine", "tractor", "rocket", "sailboat", "train", "ambulance", "scooter", "airplane", "bus"},
	internal.CategoryJobs:     {"doctor", "firefighter", "chef", "pilot", "astronaut", "farmer", "teacher", "painter", "detective", "dentist", "plumber", "magician"},
	internal.CategoryPlaces:   {"castle", "library", "airport", "beach", "hospital", "museum", "lighthouse", "pyramid", "stadium", "zoo", "bakery", "igloo"},
}

var difficultyWords = map[internal.WordDifficulty][]string{
	internal.DifficultyEasy:   {"sun", "tree", "house", "ball", "fish", "apple", "moon", "star", "hat", "boat", "egg", "cake", "book", "door", "shoe"},
	internal.DifficultyMedium: {"guitar", "rainbow", "bridge", "dragon", "robot", "pirate", "snowman", "treasure", "windmill", "kite", "tent", "mermaid", "wizard", "jellyfish", "compass"},
	internal.DifficultyHard:   {"procrastination", "gravity", "democracy", "nostalgia", "evolution", "camouflage", "echo", "photosynthesis", "hibernation", "eclipse", "silhouette", "avalanche", "constellation", "reflection", "telescope"},
}

var defaultWords = []string{"cat", "house", "tree", "car", "sun", "flower", "dog", "pizza", "guitar", "rocket"}

// WordEntry is one row of an operator-supplied word file.
type WordEntry struct {
	Word       string
	Category   internal.WordCategory
	Difficulty internal.WordDifficulty
}

// WordBank holds the category and difficulty tables and the random source used
// to sample from them. It is safe for concurrent use.
type WordBank struct {
	mu         sync.Mutex
	rng        *rand.Rand
	categories map[internal.WordCategory][]string
	tiers      map[internal.WordDifficulty][]string
}

// NewWordBank returns a bank over the built-in tables. A nil rng samples from
// a randomly seeded source.
func NewWordBank(rng *rand.Rand) *WordBank {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	b := &WordBank{
		rng:        rng,
		categories: make(map[internal.WordCategory][]string, len(categoryWords)),
		tiers:      make(map[internal.WordDifficulty][]string, len(difficultyWords)),
	}
	for c, words := range categoryWords {
		b.categories[c] = slices.Clone(words)
	}
	for d, words := range difficultyWords {
		b.tiers[d] = slices.Clone(words)
	}
	return b
}

// Extend adds entries to the known tables. Entries naming an unknown category
// or tier are skipped for that table. Returns the number of entries that landed
// in at least one table.
func (b *WordBank) Extend(entries []WordEntry) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	added := 0
	for _, e := range entries {
		word := strings.TrimSpace(e.Word)
		if word == "" {
			continue
		}
		ok := false
		if e.Category.Valid() {
			b.categories[e.Category] = append(b.categories[e.Category], word)
			ok = true
		}
		if e.Difficulty.Valid() && e.Difficulty != internal.DifficultyMixed {
			b.tiers[e.Difficulty] = append(b.tiers[e.Difficulty], word)
			ok = true
		}
		if ok {
			added++
		}
	}
	return added
}

// Pool builds the deduplicated candidate pool for the given filters, falling
// back to the default pool when nothing matches.
func (b *WordBank) Pool(customWords []string, categories []internal.WordCategory, difficulty internal.WordDifficulty) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pool(customWords, categories, difficulty)
}

func (b *WordBank) pool(customWords []string, categories []internal.WordCategory, difficulty internal.WordDifficulty) []string {
	pool := slices.Clone(customWords)
	for _, c := range categories {
		pool = append(pool, b.categories[c]...)
	}
	if difficulty == internal.DifficultyMixed {
		for _, d := range []internal.WordDifficulty{internal.DifficultyEasy, internal.DifficultyMedium, internal.DifficultyHard} {
			pool = append(pool, b.tiers[d]...)
		}
	} else {
		pool = append(pool, b.tiers[difficulty]...)
	}

	pool = lo.Filter(pool, func(w string, _ int) bool {
		return strings.TrimSpace(w) != ""
	})
	pool = lo.UniqBy(pool, func(w string) string {
		return strings.ToLower(strings.TrimSpace(w))
	})
	if len(pool) == 0 {
		return slices.Clone(defaultWords)
	}
	return pool
}

// Select samples one word uniformly. Words in used are skipped unless that
// would leave nothing to choose from.
func (b *WordBank) Select(customWords []string, categories []internal.WordCategory, difficulty internal.WordDifficulty, used []string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	pool := b.pool(customWords, categories, difficulty)
	if len(used) > 0 {
		seen := lo.SliceToMap(used, func(w string) (string, struct{}) {
			return strings.ToLower(w), struct{}{}
		})
		available := lo.Reject(pool, func(w string, _ int) bool {
			_, ok := seen[strings.ToLower(w)]
			return ok
		})
		if len(available) > 0 {
			pool = available
		}
	}
	return strings.TrimSpace(pool[b.rng.IntN(len(pool))])
}

var defaultBank = NewWordBank(nil)

// SelectWord samples from the built-in tables without any exclusion.
func SelectWord(customWords []string, categories []internal.WordCategory, difficulty internal.WordDifficulty) string {
	return defaultBank.Select(customWords, categories, difficulty, nil)
}
