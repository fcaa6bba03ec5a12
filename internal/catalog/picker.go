package catalog

import "math/rand"

const (
	genreSampleSize     = 5
	genreSearchLimit    = 20
	fallbackSampleSize  = 3
	fallbackSearchLimit = 15
)

func defaultGenrePool() []string {
	return []string{
		"pop", "rock", "hip-hop", "electronic", "jazz",
		"classical", "country", "reggae", "funk", "blues",
		"indie", "alternative", "dance", "r&b", "folk",
	}
}

func defaultFallbackPool() []string {
	return []string{"love", "heart", "night", "time", "world", "life", "home"}
}

// sampleTerms draws up to n terms without replacement, leaving the source
// slice untouched.
func sampleTerms(rng *rand.Rand, terms []string, n int) []string {
	if n > len(terms) {
		n = len(terms)
	}
	if n <= 0 {
		return nil
	}
	shuffled := append([]string(nil), terms...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}

// dedupeByID keeps the first occurrence of each track identifier, preserving
// encounter order. Tracks without an identifier are dropped.
func dedupeByID(tracks []Track) []Track {
	seen := make(map[int64]struct{}, len(tracks))
	unique := make([]Track, 0, len(tracks))
	for _, track := range tracks {
		if track.ID == 0 {
			continue
		}
		if _, ok := seen[track.ID]; ok {
			continue
		}
		seen[track.ID] = struct{}{}
		unique = append(unique, track)
	}
	return unique
}

// samplePool returns a uniform random sample of size min(len(pool), count).
func samplePool(rng *rand.Rand, pool []Track, count int) []Track {
	if count > len(pool) {
		count = len(pool)
	}
	if count <= 0 {
		return nil
	}
	shuffled := append([]Track(nil), pool...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:count]
}
