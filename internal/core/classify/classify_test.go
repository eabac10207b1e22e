package classify

import (
	"errors"
	"reflect"
	"testing"

	"github.com/yndnr/rolodex/internal/core/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		word string
		want Kind
	}{
		{"/", KindSeparator},
		{"@johnny", KindSocial},
		{"@", KindSocial},
		{"john@x.com", KindEmail},
		{"5551234", KindNumber},
		{"-3.5", KindNumber},
		{"1e5", KindNumber},
		{"555-1234", KindWord},
		{"NaN", KindWord},
		{"Inf", KindWord},
		{"Infinity", KindWord},
		{"-Infinity", KindWord},
		{"0x1F", KindWord},
		{"0x1p4", KindWord},
		{"John", KindWord},
		{"//", KindWord},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := Classify(tt.word); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.word, got, tt.want)
			}
		})
	}
}

func TestKind_Category(t *testing.T) {
	c, ok := KindWord.Category()
	if !ok || c != domain.CategoryAliases {
		t.Errorf("KindWord.Category() = %q, %v, want %q, true", c, ok, domain.CategoryAliases)
	}
	if _, ok := KindSeparator.Category(); ok {
		t.Error("KindSeparator.Category() reported a category")
	}
	if got := KindEmail.String(); got != "email" {
		t.Errorf("KindEmail.String() = %q, want email", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.Entry
	}{
		{
			name:  "name with social and email",
			input: "John Smith @johnny john@x.com",
			want: domain.Entry{
				Key: "John Smith",
				Attributes: domain.Record{
					Socials: []string{"@johnny"},
					Emails:  []string{"john@x.com"},
				},
			},
		},
		{
			name:  "name only",
			input: "Jane Smith",
			want:  domain.Entry{Key: "Jane Smith"},
		},
		{
			name:  "words after the name become aliases",
			input: "John 5551234 Johnny JJ",
			want: domain.Entry{
				Key: "John",
				Attributes: domain.Record{
					Aliases: []string{"Johnny", "JJ"},
					Numbers: []string{"5551234"},
				},
			},
		},
		{
			name:  "separator ends the name",
			input: "John Smith / Johnny",
			want: domain.Entry{
				Key:        "John Smith",
				Attributes: domain.Record{Aliases: []string{"Johnny"}},
			},
		},
		{
			name:  "extra spaces",
			input: "  John   Smith  @js ",
			want: domain.Entry{
				Key:        "John Smith",
				Attributes: domain.Record{Socials: []string{"@js"}},
			},
		},
		{
			name:  "repeated value kept once",
			input: "John @js @js",
			want: domain.Entry{
				Key:        "John",
				Attributes: domain.Record{Socials: []string{"@js"}},
			},
		},
		{
			name:  "hex stays in the name",
			input: "Unit 0x1F 42",
			want: domain.Entry{
				Key:        "Unit 0x1F",
				Attributes: domain.Record{Numbers: []string{"42"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if !reflect.DeepEqual(*got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, *got, tt.want)
			}
		})
	}
}

func TestParse_NoName(t *testing.T) {
	for _, input := range []string{"", "   ", "@johnny John", "/ John", "5551234"} {
		if _, err := Parse(input); !errors.Is(err, domain.ErrEmptyKey) {
			t.Errorf("Parse(%q) error = %v, want ErrEmptyKey", input, err)
		}
	}
}

func TestParse_InvalidUTF8(t *testing.T) {
	for _, input := range []string{"\xff", "Al \xff \xfe", "Al @\xffx"} {
		got, err := Parse(input)
		if !errors.Is(err, domain.ErrInvalidText) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidText", input, err)
		}
		if got != nil {
			t.Errorf("Parse(%q) = %+v, want nil", input, got)
		}
	}
}
