// Command trainer builds the model artifact set from the raw CSV datasets.
// Training is deterministic for a fixed seed, so rebuilding on the same
// inputs produces byte-identical artifacts.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/vietcare/platform/internal/dataset"
	"github.com/vietcare/platform/internal/ml"
	"github.com/vietcare/platform/internal/shared/config"
	"github.com/vietcare/platform/internal/shared/logging"
	"github.com/vietcare/platform/internal/triage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Server.Env)
	log := logging.Component("trainer")
	start := time.Now()

	diseases, err := dataset.LoadDiseaseSymptoms(filepath.Join(cfg.Triage.DataDir, "disease_symptoms.csv"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load symptom table")
	}
	if diseases.Rejected > 0 {
		log.Warn().Int("rejected", diseases.Rejected).Msg("skipped malformed symptom rows")
	}

	descriptions, err := dataset.LoadDescriptions(filepath.Join(cfg.Triage.DataDir, "disease_descriptions.csv"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load descriptions")
	}
	specialists, err := dataset.LoadSpecialists(filepath.Join(cfg.Triage.DataDir, "disease_specialists.csv"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load specialists")
	}

	kb := triage.BuildKnowledgeBase(diseases.Records)
	if kb.Len() == 0 {
		log.Fatal().Msg("symptom table is empty")
	}

	var all []string
	for _, d := range kb.Diseases() {
		all = append(all, kb.Symptoms(d)...)
	}
	vocab := triage.NewVocabulary(all)
	if err := kb.Validate(vocab); err != nil {
		log.Fatal().Err(err).Msg("knowledge base inconsistent with vocabulary")
	}

	log.Info().
		Int("diseases", kb.Len()).
		Int("symptoms", vocab.Len()).
		Msg("datasets loaded")

	codec := triage.FitLabels(kb.Diseases())

	rng := rand.New(rand.NewSource(cfg.Triage.Seed))
	X, labels, err := triage.Synthesize(kb, vocab, cfg.Triage.SamplesPerDisease, rng)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to synthesize training set")
	}

	y := make([]int, len(labels))
	for i, name := range labels {
		idx, err := codec.Encode(name)
		if err != nil {
			log.Fatal().Err(err).Str("disease", name).Msg("failed to encode label")
		}
		y[i] = idx
	}

	forestCfg := ml.DefaultForestConfig()
	forestCfg.Trees = cfg.Triage.Trees
	forestCfg.Seed = cfg.Triage.Seed

	rows, _ := X.Dims()
	log.Info().
		Int("samples", rows).
		Int("trees", forestCfg.Trees).
		Int64("seed", forestCfg.Seed).
		Msg("training forest")

	model, err := ml.Fit(X, y, forestCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("training failed")
	}

	specMap := make(map[string]string, len(specialists.Records))
	for _, rec := range specialists.Records {
		specMap[rec.Disease] = rec.Specialist
	}
	descMap := make(map[string]string, len(descriptions.Records))
	for _, rec := range descriptions.Records {
		descMap[rec.Disease] = rec.Description
	}

	artifacts := &triage.Artifacts{
		Vocabulary: vocab,
		Knowledge:  kb,
		Codec:      codec,
		Model:      model,
		Resolver:   triage.NewResolver(specMap, descMap),
	}

	if err := os.MkdirAll(cfg.Triage.ArtifactDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("failed to create artifact directory")
	}
	if err := triage.SaveArtifacts(cfg.Triage.ArtifactDir, artifacts); err != nil {
		log.Fatal().Err(err).Msg("failed to save artifacts")
	}

	// Reload through the same path the server uses, so a broken artifact
	// set fails here instead of at service startup.
	if _, err := triage.LoadArtifacts(cfg.Triage.ArtifactDir); err != nil {
		log.Fatal().Err(err).Msg("artifact verification failed")
	}

	log.Info().
		Str("dir", cfg.Triage.ArtifactDir).
		Dur("elapsed", time.Since(start)).
		Msg("training complete")
}
