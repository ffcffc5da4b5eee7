package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the repositories.
const (
	llmEventsTable     = "llm_request_events"
	sessionEventsTable = "session_events"
	answerEventsTable  = "answer_events"
)

// eventColumns are the columns every event table starts with: a row ID,
// the global sequence number and the append time.
func eventColumns() []*schema.Column {
	return []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}
}

func newEventTable(name string, cols ...*schema.Column) *schema.Table {
	all := append(eventColumns(), cols...)
	return &schema.Table{
		Name:       name,
		Columns:    all,
		PrimaryKey: []*schema.Column{all[0]},
	}
}

var (
	llmEventsTableDef = newEventTable(llmEventsTable,
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	)

	sessionEventsTableDef = newEventTable(sessionEventsTable,
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "action", Type: field.TypeString},
		&schema.Column{Name: "name", Type: field.TypeString},
		&schema.Column{Name: "topic", Type: field.TypeString},
		&schema.Column{Name: "per_level", Type: field.TypeInt},
		&schema.Column{Name: "score", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "passed", Type: field.TypeBool, Default: false},
		&schema.Column{Name: "suggestion", Type: field.TypeString, Size: 2147483647, Default: ""},
		&schema.Column{Name: "answered", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "duration_secs", Type: field.TypeInt, Default: 0},
	)

	answerEventsTableDef = newEventTable(answerEventsTable,
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "level", Type: field.TypeString},
		&schema.Column{Name: "question", Type: field.TypeString, Size: 2147483647},
		&schema.Column{Name: "answer", Type: field.TypeString, Size: 2147483647},
		&schema.Column{Name: "timed_out", Type: field.TypeBool},
		&schema.Column{Name: "elapsed_ms", Type: field.TypeInt64},
	)
)

func init() {
	sessionEventsTableDef.Indexes = []*schema.Index{{
		Name:    "sessionevent_session_id",
		Columns: []*schema.Column{sessionEventsTableDef.Columns[3]},
	}}
	answerEventsTableDef.Indexes = []*schema.Index{{
		Name:    "answerevent_session_id",
		Columns: []*schema.Column{answerEventsTableDef.Columns[3]},
	}}
}

// tables lists every table created by migrate.
var tables = []*schema.Table{
	llmEventsTableDef,
	sessionEventsTableDef,
	answerEventsTableDef,
}
