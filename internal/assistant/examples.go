package assistant

import "strings"

// ExampleQueries are sample questions in Odia, Hindi and English phrasing.
var ExampleQueries = []string{
	"kete bed available achhi?",
	"doctor sahu available nuhanti",
	"paracetamol achhi ki?",
	"ramesh kie?",
	"discharge karideba ramesh ku",
}

// Welcome is the greeting shown by interactive front-ends.
func Welcome() string {
	var b strings.Builder
	b.WriteString("Welcome to **SwasthyaSathi**, a hospital assistant chatbot.\n\n")
	b.WriteString("Ask anything related to patients, beds, doctors, or medicines in **Odia, Hindi, or English**.\n\n")
	b.WriteString("#### 💡 Example Queries:\n")
	for _, q := range ExampleQueries {
		b.WriteString("- `" + q + "`\n")
	}
	return b.String()
}
