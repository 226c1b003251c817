package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"eventhub/internal/categories"
	"eventhub/internal/events"
	"eventhub/internal/ratings"
	"eventhub/internal/shared/config"
	"eventhub/internal/shared/database"
	"eventhub/internal/tickets"
	"eventhub/internal/users"
	"eventhub/internal/venues"
	"eventhub/pkg/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const seedPassword = "password123"

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting EventHub database seeder...")

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.InitDB(cfg, logger.GetDefault())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\nCleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("\nSeeding database...")
	if err := seeder.SeedAll(context.Background()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Printf("\nSeeding completed. Every account uses the password %q.\n", seedPassword)
}

// CleanDatabase truncates all tables, children first
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"satisfaction_surveys",
		"refund_requests",
		"comments",
		"ratings",
		"tickets",
		"event_categories",
		"events",
		"categories",
		"venues",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds users, venues, categories, events and a few tickets
func (s *Seeder) SeedAll(ctx context.Context) error {
	userIDs, err := s.SeedUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	venueList, err := s.SeedVenues(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed venues: %w", err)
	}

	categoryList, err := s.SeedCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	eventIDs, err := s.SeedEvents(ctx, userIDs["organizer"], venueList, categoryList)
	if err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	if err := s.SeedTickets(ctx, userIDs["attendee"], eventIDs); err != nil {
		return fmt.Errorf("failed to seed tickets: %w", err)
	}

	finished := eventIDs[len(eventIDs)-1]
	if err := s.SeedRatings(ctx, finished, userIDs["attendee"], userIDs["guest"]); err != nil {
		return fmt.Errorf("failed to seed ratings: %w", err)
	}
	return nil
}

func (s *Seeder) SeedUsers(ctx context.Context) (map[string]uuid.UUID, error) {
	fmt.Println("  Creating users...")

	hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	seed := []struct {
		key  string
		user users.User
	}{
		{"organizer", users.User{FirstName: "Olivia", LastName: "Organizer", Username: "olivia", Email: "organizer@eventhub.dev", Role: users.RoleOrganizer}},
		{"attendee", users.User{FirstName: "Adam", LastName: "Attendee", Username: "adam", Email: "attendee@eventhub.dev", Role: users.RoleUser}},
		{"guest", users.User{FirstName: "Grace", LastName: "Guest", Username: "grace", Email: "guest@eventhub.dev", Role: users.RoleUser}},
	}

	ids := make(map[string]uuid.UUID, len(seed))
	for _, entry := range seed {
		u := entry.user
		u.ID = uuid.New()
		u.Password = string(hashed)
		if err := s.db.PostgreSQL.WithContext(ctx).Create(&u).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", u.Email, err)
		}
		ids[entry.key] = u.ID
		fmt.Printf("    %s (%s)\n", u.Email, u.Role)
	}
	return ids, nil
}

func (s *Seeder) SeedVenues(ctx context.Context) ([]venues.Venue, error) {
	fmt.Println("  Creating venues...")

	list := []venues.Venue{
		{Name: "Teatro Colon", Address: "Cerrito 628", City: "Buenos Aires", Capacity: 2500, Contact: "info@teatrocolon.org.ar"},
		{Name: "Luna Park", Address: "Av. Madero 420", City: "Buenos Aires", Capacity: 8000, Contact: "contacto@lunapark.com.ar"},
		{Name: "Centro Cultural Kirchner", Address: "Sarmiento 151", City: "Buenos Aires", Capacity: 150, Contact: "visitas@cck.gob.ar"},
	}
	for i := range list {
		list[i].ID = uuid.New()
		list[i].State = venues.VenueStateActive
		if err := s.db.PostgreSQL.WithContext(ctx).Create(&list[i]).Error; err != nil {
			return nil, fmt.Errorf("failed to create venue %s: %w", list[i].Name, err)
		}
	}
	return list, nil
}

func (s *Seeder) SeedCategories(ctx context.Context) ([]categories.Category, error) {
	fmt.Println("  Creating categories...")

	seed := map[string]string{
		"Music":      "Concerts, recitals and live music of every genre.",
		"Theatre":    "Plays, musicals and stage performances.",
		"Technology": "Talks, workshops and conferences about software and hardware.",
		"Sports":     "Matches, races and tournaments.",
	}

	list := make([]categories.Category, 0, len(seed))
	for name, description := range seed {
		category := categories.Category{
			ID:          uuid.New(),
			Name:        name,
			Slug:        generateSlug(name),
			Description: description,
			IsActive:    true,
		}
		if err := s.db.PostgreSQL.WithContext(ctx).Create(&category).Error; err != nil {
			return nil, fmt.Errorf("failed to create category %s: %w", name, err)
		}
		list = append(list, category)
	}
	return list, nil
}

func (s *Seeder) SeedEvents(ctx context.Context, organizerID uuid.UUID, venueList []venues.Venue, categoryList []categories.Category) ([]uuid.UUID, error) {
	fmt.Println("  Creating events...")

	now := time.Now().UTC()
	seed := []struct {
		title       string
		description string
		in          time.Duration
		venue       int
		status      events.Status
	}{
		{"Symphony Night", "An evening with the city philharmonic.", 30 * 24 * time.Hour, 0, events.StatusActive},
		{"Rock en el Luna", "Three local bands, one stage.", 14 * 24 * time.Hour, 1, events.StatusActive},
		{"Go Meetup", "Lightning talks about Go in production.", 7 * 24 * time.Hour, 2, events.StatusActive},
		{"Winter Gala", "Last season's closing gala.", -60 * 24 * time.Hour, 0, events.StatusFinished},
	}

	ids := make([]uuid.UUID, 0, len(seed))
	for i, entry := range seed {
		event := events.Event{
			ID:          uuid.New(),
			Title:       entry.title,
			Description: entry.description,
			ScheduledAt: now.Add(entry.in),
			OrganizerID: organizerID,
			VenueID:     venueList[entry.venue].ID,
			Status:      entry.status,
			Categories:  []categories.Category{categoryList[i%len(categoryList)]},
		}
		if err := s.db.PostgreSQL.WithContext(ctx).Create(&event).Error; err != nil {
			return nil, fmt.Errorf("failed to create event %s: %w", entry.title, err)
		}
		ids = append(ids, event.ID)
		fmt.Printf("    %s (%s)\n", event.Title, event.Status)
	}
	return ids, nil
}

func (s *Seeder) SeedTickets(ctx context.Context, attendeeID uuid.UUID, eventIDs []uuid.UUID) error {
	fmt.Println("  Creating tickets...")

	for i, eventID := range eventIDs[:2] {
		ticketType := tickets.TicketTypeGeneral
		if i%2 == 1 {
			ticketType = tickets.TicketTypeVIP
		}
		ticket := tickets.Ticket{
			ID:       uuid.New(),
			Code:     uuid.New(),
			UserID:   attendeeID,
			EventID:  eventID,
			Quantity: 2,
			Type:     ticketType,
			State:    tickets.TicketStateActive,
			BuyDate:  time.Now().UTC(),
		}
		if err := s.db.PostgreSQL.WithContext(ctx).Omit("Event").Create(&ticket).Error; err != nil {
			return fmt.Errorf("failed to create ticket: %w", err)
		}
		fmt.Printf("    ticket %s x%d\n", ticket.Code, ticket.Quantity)
	}
	return nil
}

// SeedRatings gives the finished event one CURRENT rating per reviewer
func (s *Seeder) SeedRatings(ctx context.Context, eventID uuid.UUID, reviewerIDs ...uuid.UUID) error {
	fmt.Println("  Creating ratings...")

	reviews := []struct {
		title string
		text  string
		score int
	}{
		{"Unforgettable night", "Great sound and a beautiful hall.", 5},
		{"Good but crowded", "The show was fine, the queue at the door was not.", 3},
	}

	for i, userID := range reviewerIDs {
		review := reviews[i%len(reviews)]
		rating := ratings.Rating{
			ID:      uuid.New(),
			UserID:  userID,
			EventID: eventID,
			Title:   review.title,
			Text:    review.text,
			Score:   review.score,
			State:   ratings.RatingStateCurrent,
		}
		if err := s.db.PostgreSQL.WithContext(ctx).Omit("User").Create(&rating).Error; err != nil {
			return fmt.Errorf("failed to create rating: %w", err)
		}
	}
	return nil
}

func generateSlug(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}
