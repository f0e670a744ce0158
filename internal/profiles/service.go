package profiles

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"agri-backend/internal/shared/metrics"
)

// ValidationError lists the offending fields by their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid profile: " + strings.Join(names, ", ")
}

var fieldMessages = map[string]string{
	"name":        "Name must be 2-100 characters",
	"phoneNumber": "Phone number must be 10-15 characters",
	"city":        "City must be 2-100 characters",
}

type Service struct {
	Repo     Repo
	validate *validator.Validate
}

func NewService(repo Repo) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{Repo: repo, validate: v}
}

// Get returns the caller's profile or ErrNotFound.
func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("profiles service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return Profile{}, errors.New("user id is required")
	}
	return s.Repo.GetByUserID(ctx, userID)
}

// Upsert trims and validates in, then creates or replaces the profile for userID.
func (s *Service) Upsert(ctx context.Context, userID string, in Input) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("profiles service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return Profile{}, errors.New("user id is required")
	}
	in = Input{
		Name:        strings.TrimSpace(in.Name),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		City:        strings.TrimSpace(in.City),
	}
	if err := s.check(in); err != nil {
		return Profile{}, err
	}

	saved, err := s.Repo.Upsert(ctx, Profile{
		UserID:      userID,
		Name:        in.Name,
		PhoneNumber: in.PhoneNumber,
		City:        in.City,
	})
	if err != nil {
		return Profile{}, err
	}
	metrics.IncProfileUpserts()
	return saved, nil
}

func (s *Service) check(in Input) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate profile: %w", err)
	}
	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fe.Field()] = fieldMessages[fe.Field()]
	}
	return out
}

var suggestedCities = []string{
	"Mumbai", "Delhi", "Bangalore", "Hyderabad", "Chennai", "Kolkata", "Pune",
	"Ahmedabad", "Jaipur", "Lucknow", "Kanpur", "Nagpur", "Indore", "Thane",
	"Bhopal", "Visakhapatnam", "Patna", "Vadodara", "Ghaziabad", "Ludhiana",
	"Agra", "Nashik", "Faridabad", "Meerut", "Rajkot", "Varanasi", "Srinagar",
	"Aurangabad", "Dhanbad", "Amritsar", "Allahabad", "Ranchi", "Howrah",
	"Coimbatore", "Jabalpur", "Gwalior", "Vijayawada", "Jodhpur", "Madurai",
	"Raipur", "Kota", "Chandigarh", "Guwahati", "Solapur", "Hubli", "Tiruchirappalli",
}

// Cities returns the suggested city list in alphabetical order. Any other
// city is still accepted on save.
func Cities() []string {
	out := slices.Clone(suggestedCities)
	sort.Strings(out)
	return out
}
