package model

import "testing"

func TestScheduleItemMinutes(t *testing.T) {
	it := ScheduleItem{StartHour: 8, StartMin: 30, EndHour: 17, EndMin: 15}
	if got := it.StartMinute(); got != 510 {
		t.Fatalf("StartMinute = %d, want 510", got)
	}
	if got := it.EndMinute(); got != 1035 {
		t.Fatalf("EndMinute = %d, want 1035", got)
	}
}

func TestHasDay(t *testing.T) {
	it := ScheduleItem{Days: "046"}
	for day, want := range map[int]bool{0: true, 1: false, 4: true, 6: true, 5: false} {
		if got := it.HasDay(day); got != want {
			t.Errorf("HasDay(%d) = %v, want %v", day, got, want)
		}
	}
	if it.HasDay(-1) || it.HasDay(7) {
		t.Fatal("HasDay out of range = true, want false")
	}
}

func TestEventAllDay(t *testing.T) {
	ev := Event{StartHour: DefaultStartHour, EndHour: DefaultEndHour}
	if !ev.AllDay() {
		t.Fatal("default window AllDay = false, want true")
	}
	ev.StartHour = 9
	if ev.AllDay() {
		t.Fatal("9-23 window AllDay = true, want false")
	}
}

func TestColorByName(t *testing.T) {
	c, ok := ColorByName("red")
	if !ok || c != (RGB{R: 255}) {
		t.Fatalf("ColorByName(red) = %#v/%v, want pure red/true", c, ok)
	}

	// Unknown colors fall back to white so text never renders invisibly.
	c, ok = ColorByName("mauve")
	if ok {
		t.Fatal("ColorByName(mauve) ok = true, want false")
	}
	if c != White {
		t.Fatalf("ColorByName(mauve) = %#v, want White", c)
	}
}

func TestColorNamesSorted(t *testing.T) {
	names := ColorNames()
	if len(names) == 0 {
		t.Fatal("ColorNames is empty")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("ColorNames not sorted: %q before %q", names[i-1], names[i])
		}
	}
	for _, name := range names {
		if _, ok := ColorByName(name); !ok {
			t.Fatalf("listed color %q does not resolve", name)
		}
	}
}
