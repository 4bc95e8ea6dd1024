package store

import (
	"testing"

	"github.com/dukerupert/starcoin/internal/model"
)

func newTask(familyID, title string) model.Task {
	return model.Task{
		FamilyID: familyID, Title: title, Category: model.CategoryChores,
		CoinReward: 10, XPReward: 5, DurationMinutes: 15,
		Enabled: true, Schedule: model.ScheduleDaily,
	}
}

func TestTaskCRUD(t *testing.T) {
	db := openTestDB(t)
	fx := seedFamily(t, db)
	ts := NewTaskStore(db)

	task, err := ts.Create(newTask(fx.family.ID, "Make bed"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Title != "Make bed" || !task.Enabled || task.Schedule != model.ScheduleDaily {
		t.Errorf("created = %+v", task)
	}
	if task.IsInstance() {
		t.Error("new task should not be an instance")
	}

	task.Title = "Make the bed"
	task.Schedule = model.ScheduleCustom
	task.CustomDays = "[1,3,5]"
	updated, err := ts.Update(*task)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Make the bed" || updated.CustomDays != "[1,3,5]" {
		t.Errorf("updated = %+v", updated)
	}

	missing, err := ts.GetByID("nope")
	if err != nil || missing != nil {
		t.Errorf("GetByID(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func TestTaskSoftDeleteRestore(t *testing.T) {
	db := openTestDB(t)
	fx := seedFamily(t, db)
	ts := NewTaskStore(db)

	a, _ := ts.Create(newTask(fx.family.ID, "Dishes"))
	b, _ := ts.Create(newTask(fx.family.ID, "Homework"))

	if err := ts.SetEnabled(a.ID, false); err != nil {
		t.Fatalf("disable: %v", err)
	}

	enabled, _ := ts.ListEnabled(fx.family.ID)
	if len(enabled) != 1 || enabled[0].ID != b.ID {
		t.Errorf("enabled = %+v, want only %s", enabled, b.ID)
	}
	disabled, _ := ts.ListDisabled(fx.family.ID)
	if len(disabled) != 1 || disabled[0].ID != a.ID {
		t.Errorf("disabled = %+v, want only %s", disabled, a.ID)
	}
	all, _ := ts.ListByFamily(fx.family.ID)
	if len(all) != 2 {
		t.Errorf("all = %d, want 2", len(all))
	}

	if err := ts.SetEnabled(a.ID, true); err != nil {
		t.Fatalf("restore: %v", err)
	}
	got, _ := ts.GetByID(a.ID)
	if !got.Enabled {
		t.Error("expected task restored")
	}
}

func TestTaskTemplateInstance(t *testing.T) {
	db := openTestDB(t)
	fx := seedFamily(t, db)
	ts := NewTaskStore(db)

	tmpl, _ := ts.Create(newTask(fx.family.ID, "Practice piano"))
	inst := newTask(fx.family.ID, "Practice piano (Mon)")
	inst.TemplateID = &tmpl.ID

	created, err := ts.Create(inst)
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}
	if !created.IsInstance() || *created.TemplateID != tmpl.ID {
		t.Errorf("template_id = %v, want %s", created.TemplateID, tmpl.ID)
	}
}
