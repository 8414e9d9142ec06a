package app

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"dietcoach/internal/domain"
)

func TestLocalStore_ProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	p := validProfile()
	p.Allergies = []string{domain.AllergyNuts}
	p.PreferredFood = []string{"한식"}
	p.EatLevel = domain.MealFrequency{Breakfast: domain.MealSkip, Lunch: domain.MealRegular, Dinner: domain.MealLight}
	store.SetUserProfile(ctx, p)

	got := store.UserProfile(ctx)
	if !reflect.DeepEqual(got, p) {
		t.Errorf("UserProfile = %+v; want %+v", got, p)
	}
}

func TestLocalStore_NilLeavesPriorData(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	store.SetUserProfile(ctx, validProfile())
	store.SetUserProfile(ctx, nil)
	store.SetAccount(ctx, nil)
	store.SetEatenFoods(ctx, nil)
	store.SetAuthToken(ctx, "")

	if store.UserProfile(ctx) == nil {
		t.Error("nil write must not clear the profile")
	}
	if _, ok := store.EatenFoods(ctx); ok {
		t.Error("nil entries must not be written")
	}
}

func TestLocalStore_ClearAllTwice(t *testing.T) {
	ctx := context.Background()
	store, kv := newTestStore()
	store.SetAuthToken(ctx, "abc")
	store.SetRecommendations(ctx, []domain.DietRecommendationItem{{ID: "1"}})

	store.ClearAll(ctx)
	first := kv.Len()
	store.ClearAll(ctx)
	if first != 0 || kv.Len() != 0 {
		t.Errorf("Len after clears = %d, %d; want 0, 0", first, kv.Len())
	}
	if store.AuthToken(ctx) != "" {
		t.Error("token survived ClearAll")
	}
}

func TestLocalStore_CorruptValue(t *testing.T) {
	ctx := context.Background()
	store, kv := newTestStore()
	if err := kv.Set(ctx, domain.KeyUserProfile, "{not json"); err != nil {
		t.Fatal(err)
	}
	if p := store.UserProfile(ctx); p != nil {
		t.Errorf("corrupt value should read as nil, got %+v", p)
	}
}

func TestLocalStore_WriteFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	store, kv := newTestStore()
	kv.FailWrites(errors.New("disk full"))

	store.SetAuthToken(ctx, "abc")
	store.SetSurveyCompleted(ctx, true)
	store.ClearAll(ctx)

	if store.AuthToken(ctx) != "" {
		t.Error("failed write should leave the slot empty")
	}
}

func TestLocalStore_TokenSource(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	if _, err := store.TokenSource(ctx).Token(); !IsLoginRequired(err) {
		t.Errorf("err = %v; want login required", err)
	}

	store.SetAuthToken(ctx, "abc")
	tok, err := store.TokenSource(ctx).Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok.AccessToken != "abc" || tok.Type() != "Bearer" {
		t.Errorf("Token = %+v", tok)
	}
}
