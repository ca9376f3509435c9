package record

import (
	"reflect"
	"testing"
)

func TestDecodeMedications(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  []byte
		want []Medication
	}{
		{
			name: "nil payload",
			raw:  nil,
			want: nil,
		},
		{
			name: "empty payload",
			raw:  []byte{},
			want: nil,
		},
		{
			name: "json null",
			raw:  []byte(`null`),
			want: nil,
		},
		{
			name: "empty array",
			raw:  []byte(`[]`),
			want: nil,
		},
		{
			name: "well formed entries",
			raw:  []byte(`[{"name":"Lisinopril","reason":"blood pressure"},{"name":"Metformin","reason":"diabetes"}]`),
			want: []Medication{
				{Name: "Lisinopril", Reason: "blood pressure"},
				{Name: "Metformin", Reason: "diabetes"},
			},
		},
		{
			name: "missing fields get zero values",
			raw:  []byte(`[{"name":"Aspirin"},{"reason":"pain"}]`),
			want: []Medication{
				{Name: "Aspirin"},
				{Reason: "pain"},
			},
		},
		{
			name: "non-object entries are skipped",
			raw:  []byte(`["ibuprofen", 42, null, {"name":"Insulin","reason":"diabetes"}]`),
			want: []Medication{
				{Name: "Insulin", Reason: "diabetes"},
			},
		},
		{
			name: "whitespace before object",
			raw:  []byte("[ \n\t {\"name\":\"Aspirin\",\"reason\":\"pain\"}]"),
			want: []Medication{
				{Name: "Aspirin", Reason: "pain"},
			},
		},
		{
			name: "not an array",
			raw:  []byte(`{"name":"Aspirin"}`),
			want: nil,
		},
		{
			name: "invalid json",
			raw:  []byte(`[{`),
			want: nil,
		},
		{
			name: "unknown keys are ignored",
			raw:  []byte(`[{"name":"Aspirin","reason":"pain","dosage":"100mg"}]`),
			want: []Medication{
				{Name: "Aspirin", Reason: "pain"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := DecodeMedications(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeMedications() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
