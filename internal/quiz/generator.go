package quiz

import (
	"math/rand/v2"

	"github.com/abhisek/geoquiz/internal/geo"
)

// optionAttemptsPerRegion bounds option sampling to poolSize*5 draws so a
// pool with too few distinct labels cannot loop forever.
const optionAttemptsPerRegion = 5

// Result is the output of a generation run. An empty Questions slice with
// PoolSize 0 means the quiz cannot be played.
type Result struct {
	Questions []Question
	PoolSize  int
}

// Generator builds question sequences. It is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator drawing from rng. A nil rng uses a
// randomly seeded source.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{rng: rng}
}

// Generate produces the questions for one playthrough of q over regions.
// Every pool region is the target exactly once, in shuffled order; the
// configured QuestionCount is ignored.
func (g *Generator) Generate(regions []geo.Region, q Quiz) Result {
	pool := buildPool(regions, q)
	poolSize := len(pool)
	if poolSize == 0 {
		return Result{PoolSize: 0}
	}

	count := max(1, poolSize)

	poolIDs := make([]string, poolSize)
	labelByID := make(map[string]string, poolSize)
	for i, r := range pool {
		poolIDs[i] = r.ID
		label := r.Label
		if label == "" {
			label = r.ID
		}
		labelByID[r.ID] = label
	}

	order := g.shuffle(poolIDs)

	optionsCount := q.Settings.OptionsCount
	if optionsCount <= 0 {
		optionsCount = DefaultOptionsCount
	}

	questions := make([]Question, 0, count)
	for i := 0; i < count; i++ {
		targetID := order[i%poolSize]

		switch q.Type {
		case TypeMultipleChoice:
			questions = append(questions, MultipleChoice{
				TargetID: targetID,
				Options:  g.pickOptions(targetID, poolIDs, labelByID, min(optionsCount, poolSize)),
			})
		default:
			questions = append(questions, MapClick{TargetID: targetID})
		}
	}

	return Result{Questions: questions, PoolSize: poolSize}
}

// pickOptions samples up to maxOptions distinct IDs with distinct labels,
// always including targetID, and returns them shuffled.
func (g *Generator) pickOptions(targetID string, poolIDs []string, labelByID map[string]string, maxOptions int) []string {
	chosen := []string{targetID}
	chosenIDs := map[string]bool{targetID: true}
	usedLabels := map[string]bool{labelByID[targetID]: true}

	guard := len(poolIDs) * optionAttemptsPerRegion
	for attempts := 0; len(chosen) < maxOptions && attempts < guard; attempts++ {
		id := poolIDs[g.rng.IntN(len(poolIDs))]
		if chosenIDs[id] || usedLabels[labelByID[id]] {
			continue
		}
		chosen = append(chosen, id)
		chosenIDs[id] = true
		usedLabels[labelByID[id]] = true
	}

	return g.shuffle(chosen)
}

// shuffle returns a Fisher-Yates permutation of ids, leaving ids untouched.
func (g *Generator) shuffle(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	for i := len(out) - 1; i > 0; i-- {
		j := g.rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// buildPool returns the regions eligible as targets and options.
func buildPool(regions []geo.Region, q Quiz) []geo.Region {
	if !q.Type.RequiresImages() {
		return regions
	}
	pool := make([]geo.Region, 0, len(regions))
	for _, r := range regions {
		if q.ImageMap[r.ID] != "" {
			pool = append(pool, r)
		}
	}
	return pool
}

// Generate is a convenience wrapper using a freshly seeded Generator.
func Generate(regions []geo.Region, q Quiz) Result {
	return NewGenerator(nil).Generate(regions, q)
}
