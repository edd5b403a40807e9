package fingerprint

import (
	"hash/fnv"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
)

func float(v float64) *float64 { return &v }

func ist(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	return loc
}

func TestFNV1a64(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "cbf29ce484222325"},
		{"a", "af63dc4c8601ec8c"},
		{"foobar", "85944171f73967e8"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := FNV1a64(tt.input); got != tt.want {
				t.Errorf("FNV1a64(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}

	t.Run("matches byte-wise FNV-1a for ASCII", func(t *testing.T) {
		s := "acc-1|2024-01-02|BUY|AAPL|2|150.5|USD|0"
		h := fnv.New64a()
		h.Write([]byte(s))
		if got, want := FNV1a64(s), strconv.FormatUint(h.Sum64(), 16); got != want {
			t.Errorf("Expected %s, got %s", want, got)
		}
	})

	t.Run("hashes UTF-16 code units for non-ASCII", func(t *testing.T) {
		// "é" is one UTF-16 unit but two UTF-8 bytes.
		h := fnv.New64a()
		h.Write([]byte("é"))
		if FNV1a64("é") == strconv.FormatUint(h.Sum64(), 16) {
			t.Error("Expected UTF-16 hashing to differ from UTF-8 byte hashing")
		}
	})
}

func TestHasher_Transaction(t *testing.T) {
	h := NewHasher(ist(t))

	base := model.Transaction{
		Date:         "2024-01-15",
		ActivityType: model.ActivityBuy,
		Symbol:       "AAPL",
		Quantity:     float(2),
		UnitPrice:    150.25,
		Amount:       300.5,
		Currency:     "USD",
		Fee:          1,
	}

	t.Run("identical economic content hashes equal", func(t *testing.T) {
		other := base
		other.Quantity = float(2)
		other.Comment = "ignored"
		other.Amount = 999 // amount is not part of the hash
		if h.Transaction(base, "acc") != h.Transaction(other, "acc") {
			t.Error("Expected equal hashes")
		}
	})

	t.Run("hash has reserved suffix", func(t *testing.T) {
		if !strings.HasSuffix(h.Transaction(base, "acc"), "#0") {
			t.Error("Expected #0 suffix")
		}
	})

	t.Run("each hashed field changes the hash", func(t *testing.T) {
		mutations := map[string]func(tx *model.Transaction){
			"date":         func(tx *model.Transaction) { tx.Date = "2024-01-16" },
			"activityType": func(tx *model.Transaction) { tx.ActivityType = model.ActivitySell },
			"symbol":       func(tx *model.Transaction) { tx.Symbol = "MSFT" },
			"quantity":     func(tx *model.Transaction) { tx.Quantity = float(3) },
			"unitPrice":    func(tx *model.Transaction) { tx.UnitPrice = 150.26 },
			"currency":     func(tx *model.Transaction) { tx.Currency = "EUR" },
			"fee":          func(tx *model.Transaction) { tx.Fee = 2 },
		}
		want := h.Transaction(base, "acc")
		for field, mutate := range mutations {
			tx := base
			mutate(&tx)
			if h.Transaction(tx, "acc") == want {
				t.Errorf("Changing %s did not change the hash", field)
			}
		}
		if h.Transaction(base, "other-acc") == want {
			t.Error("Changing account did not change the hash")
		}
	})

	t.Run("nil quantity hashes like zero", func(t *testing.T) {
		a := base
		a.Quantity = nil
		b := base
		b.Quantity = float(0)
		if h.Transaction(a, "acc") != h.Transaction(b, "acc") {
			t.Error("Expected nil and zero quantity to hash equal")
		}
	})

	t.Run("cash activities ignore symbol", func(t *testing.T) {
		for _, typ := range []model.ActivityType{model.ActivityDeposit, model.ActivityWithdrawal, model.ActivityTax} {
			a := model.Transaction{Date: "2024-01-15", ActivityType: typ, Symbol: "", UnitPrice: 10, Amount: 10, Currency: "USD"}
			b := a
			b.Symbol = "AAPL"
			if h.Transaction(a, "acc") != h.Transaction(b, "acc") {
				t.Errorf("Expected %s to hash under the cash symbol", typ)
			}
		}
	})

	t.Run("activity type is case-insensitive", func(t *testing.T) {
		a := base
		a.ActivityType = "buy"
		if h.Transaction(a, "acc") != h.Transaction(base, "acc") {
			t.Error("Expected lower-case type to hash like upper-case")
		}
	})

	t.Run("tax unit price hashed as absolute value", func(t *testing.T) {
		a := model.Transaction{Date: "2024-01-15", ActivityType: model.ActivityTax, UnitPrice: -2.5, Currency: "USD"}
		b := a
		b.UnitPrice = 2.5
		if h.Transaction(a, "acc") != h.Transaction(b, "acc") {
			t.Error("Expected negative tax to hash like positive tax")
		}
	})
}

func TestHasher_ActivityMatchesTransaction(t *testing.T) {
	loc := ist(t)
	h := NewHasher(loc)

	t.Run("holding activity", func(t *testing.T) {
		tx := model.Transaction{
			Date: "2024-03-01", ActivityType: model.ActivityAddHolding, Symbol: "0P0000XW89.BO",
			Quantity: float(1.234), UnitPrice: 4821.5, Amount: 5950, Currency: "INR",
		}
		act := model.Activity{
			AccountID: "acc", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, loc),
			ActivityType: model.ActivityAddHolding, AssetSymbol: "0P0000XW89.BO",
			Quantity: 1.234, UnitPrice: 4821.5, Amount: 5950, Currency: "INR",
		}
		if h.Transaction(tx, "acc") != h.Activity(act) {
			t.Error("Expected transaction and stored activity to hash equal")
		}
	})

	t.Run("dividend stored with amount", func(t *testing.T) {
		tx := model.Transaction{
			Date: "2024-03-01", ActivityType: model.ActivityDividend, Symbol: "AAPL",
			UnitPrice: 12.4, Amount: 12.4, Currency: "USD",
		}
		act := model.Activity{
			AccountID: "acc", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, loc),
			ActivityType: model.ActivityDividend, AssetSymbol: "AAPL",
			UnitPrice: 0, Amount: 12.4, Currency: "USD",
		}
		if h.Transaction(tx, "acc") != h.Activity(act) {
			t.Error("Expected dividend to hash on amount")
		}
	})

	t.Run("history dates normalized to reference timezone", func(t *testing.T) {
		// 20:00 UTC on Feb 29 is already March 1 in India.
		act := model.Activity{
			AccountID: "acc", Date: time.Date(2024, 2, 29, 20, 0, 0, 0, time.UTC),
			ActivityType: model.ActivityDeposit, AssetSymbol: CashSymbol, Amount: 100, Currency: "USD",
		}
		tx := model.Transaction{
			Date: "2024-03-01", ActivityType: model.ActivityDeposit, UnitPrice: 100, Amount: 100, Currency: "USD",
		}
		if h.Transaction(tx, "acc") != h.Activity(act) {
			t.Error("Expected IST-normalized date to match")
		}
	})
}

func TestHasher_NewActivityRoundTrip(t *testing.T) {
	h := NewHasher(ist(t))

	txs := []model.Transaction{
		{Date: "2024-01-15", ActivityType: model.ActivityBuy, Symbol: "AAPL", Quantity: float(2), UnitPrice: 180.5, Amount: 361, Currency: "USD", Fee: 0.5},
		{Date: "2024-02-01", ActivityType: model.ActivityDeposit, UnitPrice: 1000, Amount: 1000, Currency: "USD"},
		{Date: "2024-02-02", ActivityType: model.ActivityWithdrawal, UnitPrice: 200, Amount: 200, Currency: "USD"},
		{Date: "2024-03-01", ActivityType: model.ActivityDividend, Symbol: "AAPL", UnitPrice: 12.5, Amount: 12.5, Currency: "USD"},
		{Date: "2024-03-01", ActivityType: model.ActivityTax, Symbol: "AAPL", UnitPrice: -3.75, Amount: -3.75, Currency: "USD"},
		{Date: "2024-01-02", ActivityType: model.ActivityAddHolding, Symbol: "0P0000XW89.BO", Quantity: float(1.5), UnitPrice: 4000, Amount: 6000, Currency: "INR"},
	}

	for _, tx := range txs {
		t.Run(string(tx.ActivityType), func(t *testing.T) {
			activity, err := h.NewActivity(tx, "acc-1")
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got, want := h.Activity(activity), h.Transaction(tx, "acc-1"); got != want {
				t.Errorf("Expected stored activity to hash to %s, got %s", want, got)
			}
		})
	}

	t.Run("invalid date", func(t *testing.T) {
		if _, err := h.NewActivity(model.Transaction{Date: "15/01/2024"}, "acc-1"); err == nil {
			t.Error("Expected error for non-normalized date")
		}
	})
}
