package services

import (
	"testing"

	"outgo/internal/models"
	"outgo/internal/testutil"
)

func TestGetProfile(t *testing.T) {
	t.Run("defaults_to_eur_without_row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)
		user := testutil.CreateTestUser(t, db)

		profile, err := svc.GetProfile(user.ID)
		testutil.AssertNoError(t, err)

		if profile.BaseCurrency != "EUR" {
			t.Errorf("expected default base currency EUR, got %s", profile.BaseCurrency)
		}
	})
}

func TestSetBaseCurrency(t *testing.T) {
	t.Run("sets_and_normalizes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)
		user := testutil.CreateTestUser(t, db)

		profile, err := svc.SetBaseCurrency(user.ID, " usd ")
		testutil.AssertNoError(t, err)
		if profile.BaseCurrency != "USD" {
			t.Errorf("expected USD, got %s", profile.BaseCurrency)
		}

		fetched, err := svc.GetProfile(user.ID)
		testutil.AssertNoError(t, err)
		if fetched.BaseCurrency != "USD" {
			t.Errorf("expected persisted USD, got %s", fetched.BaseCurrency)
		}
	})

	t.Run("second_set_overwrites", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.SetBaseCurrency(user.ID, "USD")
		testutil.AssertNoError(t, err)
		_, err = svc.SetBaseCurrency(user.ID, "GBP")
		testutil.AssertNoError(t, err)

		profile, err := svc.GetProfile(user.ID)
		testutil.AssertNoError(t, err)
		if profile.BaseCurrency != "GBP" {
			t.Errorf("expected GBP, got %s", profile.BaseCurrency)
		}
	})

	t.Run("legacy_lowercase_row_reads_uppercased", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)
		user := testutil.CreateTestUser(t, db)

		// Row planted straight through gorm, skipping service normalization.
		row := &models.Profile{UserID: user.ID, BaseCurrency: "usd"}
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("failed to plant profile row: %v", err)
		}

		profile, err := svc.GetProfile(user.ID)
		testutil.AssertNoError(t, err)
		if profile.BaseCurrency != "USD" {
			t.Errorf("expected stored base currency read back as USD, got %q", profile.BaseCurrency)
		}
	})
}
