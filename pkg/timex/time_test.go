package timex

import (
	"testing"
	"time"
)

func TestTime_UnixMethods(t *testing.T) {
	// Create a fixed time
	// 创建一个固定时间
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tt := Time(now)

	// Test Unix()
	if tt.Unix() != now.Unix() {
		t.Errorf("Unix() = %v, want %v", tt.Unix(), now.Unix())
	}

	// Test UnixMilli()
	if tt.UnixMilli() != now.UnixMilli() {
		t.Errorf("UnixMilli() = %v, want %v", tt.UnixMilli(), now.UnixMilli())
	}

	// Test UnixNano()
	if tt.UnixNano() != now.UnixNano() {
		t.Errorf("UnixNano() = %v, want %v", tt.UnixNano(), now.UnixNano())
	}

	// Verify it's not returning time.Now() by waiting a bit
	// 通过等待一会确认它不是返回 time.Now()
	time.Sleep(10 * time.Millisecond)
	if tt.Unix() != now.Unix() {
		t.Errorf("Unix() changed after sleep, it should be static. got %v, want %v", tt.Unix(), now.Unix())
	}
}

func TestTime_JSONRoundTrip(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 30, 0, 0, time.Local)
	tt := Time(now)

	data, err := tt.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(data) != `"2024-06-15 08:30:00"` {
		t.Errorf("MarshalJSON() = %s, want %q", data, "2024-06-15 08:30:00")
	}

	var parsed Time
	if err := parsed.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if !parsed.Time().Equal(now) {
		t.Errorf("round trip = %v, want %v", parsed.Time(), now)
	}
}

func TestTime_DatabaseValueScan(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 30, 0, 0, time.Local)
	tt := Time(now)

	// Value must yield a driver-supported type for SQL bindings
	// Value 必须产出数据库驱动支持的类型
	v, err := tt.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	native, ok := v.(time.Time)
	if !ok {
		t.Fatalf("Value() = %T, want time.Time", v)
	}
	if !native.Equal(now) {
		t.Errorf("Value() = %v, want %v", native, now)
	}

	var zero Time
	v, err = zero.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if v != nil {
		t.Errorf("zero Time Value() = %v, want nil", v)
	}

	cases := []interface{}{
		now,
		now.Format(Layout),
		[]byte(now.Format(Layout)),
	}
	for _, src := range cases {
		var scanned Time
		if err := scanned.Scan(src); err != nil {
			t.Fatalf("Scan(%T) error = %v", src, err)
		}
		if !scanned.Time().Equal(now) {
			t.Errorf("Scan(%T) = %v, want %v", src, scanned.Time(), now)
		}
	}

	var scanned Time
	if err := scanned.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) error = %v", err)
	}
	if !scanned.IsZero() {
		t.Errorf("Scan(nil) = %v, want zero", scanned.Time())
	}

	if err := scanned.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}

func TestTime_ZeroValue(t *testing.T) {
	var tt Time
	if !tt.IsZero() {
		t.Error("zero Time should report IsZero")
	}
	data, err := tt.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(data) != `""` {
		t.Errorf("zero Time MarshalJSON() = %s, want empty string", data)
	}
}
