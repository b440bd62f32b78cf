package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"ai-mentor-platform/internal/config"
	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/domain/ports/repository"
	pg "ai-mentor-platform/internal/infra/db/postgres"
)

// Builtin mentor catalog. IDs are stable so re-running the seeder is a no-op.
var builtins = []struct {
	ID, Name, Category, Personality, AvatarID, VoiceID string
}{
	{
		ID: "mentor-coach-dana", Name: "Coach Dana", Category: "fitness",
		Personality: "direct, energetic, celebrates small wins, zero tolerance for excuses but never harsh",
		AvatarID:    "avatar-dana-v1", VoiceID: "voice-dana-v1",
	},
	{
		ID: "mentor-prof-okafor", Name: "Prof. Okafor", Category: "career",
		Personality: "measured, socratic, asks one sharp question per reply, quotes no one",
		AvatarID:    "avatar-okafor-v1", VoiceID: "voice-okafor-v1",
	},
	{
		ID: "mentor-sage-yuki", Name: "Sage Yuki", Category: "mindfulness",
		Personality: "calm, brief, grounds advice in breath and routine, gently redirects rumination",
		AvatarID:    "avatar-yuki-v1", VoiceID: "voice-yuki-v1",
	},
}

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	mentorRepo := pg.NewPostgresMentorRepo(pool)

	seeded := 0
	for _, b := range builtins {
		if existing, err := mentorRepo.FindByID(ctx, repository.NoTX, b.ID); err == nil && existing != nil {
			fmt.Printf("mentor %s already present. No changes.\n", b.ID)
			continue
		}
		mentor, err := model.NewBuiltinMentor(b.ID, b.Name, b.Category, b.Personality, b.AvatarID, b.VoiceID)
		if err != nil {
			log.Fatalf("build mentor %q: %v", b.Name, err)
		}
		if err := mentorRepo.Save(ctx, repository.NoTX, mentor); err != nil {
			log.Fatalf("save mentor %q: %v", b.Name, err)
		}
		fmt.Printf("seeded: %s (id=%s, category=%s)\n", mentor.Name, mentor.ID, mentor.Category)
		seeded++
	}

	fmt.Printf("✅ Seeding complete. %d mentors added.\n", seeded)
}
