package cleaner_test

import (
	"github.com/David-Botos/contact-cleanse/pkg/cleaner"
	"github.com/David-Botos/contact-cleanse/pkg/model"
)

var contactColumns = []string{"First name", "Last name", "email", "Phone", "Address", "City", "State", "Zip"}

// contactTable builds a table with the default columns; each row lists
// values for those columns in order.
func contactTable(rows ...[]interface{}) *model.Table {
	t := model.NewTable(contactColumns...)
	for _, r := range rows {
		t.Append(r...)
	}
	return t
}

func contact(first, phone, address, state string) []interface{} {
	return []interface{}{first, "Smith", first + "@example.com", phone, address, "Durango", state, "81301"}
}

func countType(out cleaner.Outcome, t model.CorrectionType) int {
	n := 0
	for _, c := range out.Corrections {
		if c.Type == t {
			n++
		}
	}
	return n
}
