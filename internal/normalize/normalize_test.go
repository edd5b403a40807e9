package normalize

import (
	"reflect"
	"testing"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"parenthesised currency", "Amount (INR)", "amount_inr"},
		{"spaces", "Name of the Fund", "name_of_the_fund"},
		{"surrounding whitespace", "  Date  ", "date"},
		{"leading and trailing punctuation", "--Price/Share ($)--", "price_share"},
		{"already canonical", "cash_amount_in_usd", "cash_amount_in_usd"},
		{"digits kept", "Time (in UTC+5:30)", "time_in_utc_5_30"},
		{"only punctuation", "***", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.input); got != tt.want {
				t.Errorf("Key(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestKey_Idempotent(t *testing.T) {
	inputs := []string{"Amount (INR)", "Price Per Share (in USD)", "__x__y__", "ÄBC def", "Commission/Charges"}
	for _, in := range inputs {
		once := Key(in)
		if twice := Key(once); twice != once {
			t.Errorf("Key not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestRows(t *testing.T) {
	t.Run("zips cells against normalized headers", func(t *testing.T) {
		rows := Rows(
			[]string{"Date", "Amount (INR)", "Order"},
			[][]string{
				{"2024-01-02", "100", "buy"},
				{"2024-01-03", "200"},
			},
		)

		if len(rows) != 2 {
			t.Fatalf("Expected 2 rows, got %d", len(rows))
		}
		if rows[0]["amount_inr"] != "100" {
			t.Errorf("Expected amount_inr=100, got %q", rows[0]["amount_inr"])
		}
		if v, ok := rows[1]["order"]; !ok || v != "" {
			t.Errorf("Expected missing trailing cell to be empty, got %q (present=%v)", v, ok)
		}
	})

	t.Run("preserves row order", func(t *testing.T) {
		rows := Rows([]string{"n", "a", "b"}, [][]string{{"1"}, {"2"}, {"3"}})
		var got []string
		for _, r := range rows {
			got = append(got, r["n"])
		}
		if !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
			t.Errorf("Expected order 1,2,3, got %v", got)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		rows := Rows([]string{"a"}, nil)
		if len(rows) != 0 {
			t.Errorf("Expected no rows, got %d", len(rows))
		}
	})
}

func TestMissingColumns(t *testing.T) {
	missing := MissingColumns(
		[]string{"Date", "Order", "Units"},
		[]string{"date", "order", "nav", "units", "amount_inr"},
	)
	if !reflect.DeepEqual(missing, []string{"nav", "amount_inr"}) {
		t.Errorf("Expected [nav amount_inr], got %v", missing)
	}
}
