// Seed de desarrollo: crea usuarios y casos de ejemplo contra la DB
// configurada. Tolera re-ejecuciones (los conflictos por email se saltan).
package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/rescuetrack/internal/config"
	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
	"github.com/dropDatabas3/rescuetrack/internal/security/password"
	"github.com/dropDatabas3/rescuetrack/internal/store/pg"
)

type seedUser struct {
	email, name, role, organization string
}

var seedUsers = []seedUser{
	{"maria@rescue.dev", "María García", repository.RoleRescuer, "Street Paws"},
	{"vet@rescue.dev", "Dr. Luis Fernández", repository.RoleVet, "Clínica San Roque"},
	{"foster@rescue.dev", "Ana Torres", repository.RoleFoster, ""},
	{"coord@rescue.dev", "Pablo Ruiz", repository.RoleCoordinator, "Street Paws"},
}

const seedPassword = "rescate123"

func main() {
	configPath := flag.String("config", "configs/config.example.yaml", "ruta al config YAML")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if !strings.EqualFold(cfg.Storage.Driver, "postgres") {
		log.Fatalf("seed: requiere storage.driver=postgres (actual: %s)", cfg.Storage.Driver)
	}

	ctx := context.Background()
	store, err := pg.Connect(ctx, pg.Config{DSN: cfg.Storage.DSN})
	if err != nil {
		log.Fatalf("pg connect: %v", err)
	}
	defer store.Close()

	hash, err := password.Hash(password.Default, seedPassword)
	if err != nil {
		log.Fatalf("hash: %v", err)
	}

	users := map[string]*repository.User{}
	for _, su := range seedUsers {
		u, err := store.Users().Create(ctx, repository.CreateUserInput{
			Email:        su.email,
			PasswordHash: hash,
			Name:         su.name,
			Role:         su.role,
			Organization: su.organization,
		})
		if err != nil {
			if repository.IsConflict(err) {
				u, err = store.Users().GetByEmail(ctx, su.email)
				if err != nil {
					log.Fatalf("seed user %s: %v", su.email, err)
				}
				log.Printf("user %s ya existe, se reutiliza", su.email)
			} else {
				log.Fatalf("seed user %s: %v", su.email, err)
			}
		} else {
			log.Printf("user %s creado (password %q)", su.email, seedPassword)
		}
		users[su.email] = u
	}

	rescuer := users["maria@rescue.dev"]
	vet := users["vet@rescue.dev"]
	foster := users["foster@rescue.dev"]

	rescued := time.Now().AddDate(0, 0, -3)

	publicCase, err := store.Cases().Create(ctx, repository.CreateCaseInput{
		Species:              repository.SpeciesDog,
		Description:          "Cachorro encontrado en la banquina, desnutrido pero estable.",
		Status:               repository.StatusAtVet,
		Urgency:              repository.UrgencyHigh,
		LocationFound:        "Ruta 9 km 42, Campana",
		LocationFoundGeneral: "Campana Area",
		LocationCurrent:      "Clínica San Roque",
		DateRescued:          &rescued,
		ConditionDescription: "Desnutrición moderada, deshidratado",
		Treatments:           "Suero, plan de recuperación nutricional",
		PublicNotes:          "Busca hogar de tránsito para cuando reciba el alta.",
		IsPublic:             true,
		PrimaryOwnerID:       rescuer.ID,
	})
	if err != nil {
		log.Fatalf("seed case: %v", err)
	}

	if _, err := store.Collaborators().Add(ctx, repository.AddCollaboratorInput{
		CaseID:    publicCase.ID,
		UserID:    vet.ID,
		RoleLabel: "Treating Vet",
		AddedBy:   rescuer.ID,
	}); err != nil && !repository.IsConflict(err) {
		log.Fatalf("seed collaborator: %v", err)
	}

	if _, err := store.Activity().Append(ctx, repository.AppendActivityInput{
		CaseID:      publicCase.ID,
		UserID:      rescuer.ID,
		ActionType:  repository.ActionCaseCreated,
		Description: "Case created",
		IsPublic:    true,
	}); err != nil {
		log.Fatalf("seed activity: %v", err)
	}

	if _, err := store.Cases().Create(ctx, repository.CreateCaseInput{
		Species:              repository.SpeciesCat,
		Description:          "Gata adulta rescatada de una colonia, preñada.",
		Status:               repository.StatusAtFoster,
		Urgency:              repository.UrgencyMedium,
		LocationFound:        "Av. Mitre 1200, Avellaneda",
		LocationFoundGeneral: "Avellaneda Area",
		LocationCurrent:      "Hogar de tránsito de Ana",
		ConditionDescription: "Preñada, buen estado general",
		IsPublic:             false,
		PrimaryOwnerID:       foster.ID,
	}); err != nil {
		log.Fatalf("seed private case: %v", err)
	}

	log.Println("seed completed")
}
