package eligibility

import (
	"testing"

	"github.com/google/uuid"
	"github.com/yipai/yipai/pkg/model"
)

func makeEmployee(name string, role model.Role, status string) *model.Employee {
	return &model.Employee{
		BaseModel: model.BaseModel{ID: uuid.New()},
		Name:      name,
		Role:      role,
		Status:    status,
	}
}

func TestEligibleFiltersInactive(t *testing.T) {
	filter := NewFilter()
	pool := []*model.Employee{
		makeEmployee("在岗护士", model.RoleNurse, "active"),
		makeEmployee("休假护士", model.RoleNurse, "leave"),
		makeEmployee("离职护士", model.RoleNurse, "inactive"),
	}
	demand := model.NewShiftDemand("2026-09-01",
		model.Location{Name: "内科病区", Class: model.UnitGeneral}, model.ShiftMorning, 1, 5)

	got := filter.Eligible(pool, demand)
	if len(got) != 1 || got[0].Name != "在岗护士" {
		t.Errorf("仅在岗员工合格，实际 %d 人", len(got))
	}
}

func TestEligibleCriticalUnitRequiresClinical(t *testing.T) {
	filter := NewFilter()
	pool := []*model.Employee{
		makeEmployee("护士", model.RoleNurse, "active"),
		makeEmployee("医师", model.RolePhysician, "active"),
		makeEmployee("技师", model.RoleTechnician, "active"),
		makeEmployee("护理员", model.RoleAssistant, "active"),
	}

	icu := model.NewShiftDemand("2026-09-01",
		model.Location{Name: "ICU", Class: model.UnitIntensive}, model.ShiftNight, 2, 5)
	got := filter.Eligible(pool, icu)
	if len(got) != 2 {
		t.Fatalf("重症单元应仅剩2名临床角色，实际 %d", len(got))
	}
	for _, emp := range got {
		if !emp.IsClinical() {
			t.Errorf("%s 不是临床角色，不应进入ICU候选", emp.Name)
		}
	}

	// 即使偏好列表写了技师，关键单元仍然排除非临床角色
	icu.PreferredRoles = []model.Role{model.RoleTechnician}
	if got := filter.Eligible(pool, icu); len(got) != 0 {
		t.Errorf("关键单元的偏好不能放行非临床角色，实际 %d 人", len(got))
	}
}

func TestEligiblePreferredRoles(t *testing.T) {
	filter := NewFilter()
	pool := []*model.Employee{
		makeEmployee("护士", model.RoleNurse, "active"),
		makeEmployee("技师", model.RoleTechnician, "active"),
	}

	demand := model.NewShiftDemand("2026-09-01",
		model.Location{Name: "检验科", Class: model.UnitGeneral}, model.ShiftMorning, 1, 5)
	demand.PreferredRoles = []model.Role{model.RoleTechnician}

	got := filter.Eligible(pool, demand)
	if len(got) != 1 || got[0].Role != model.RoleTechnician {
		t.Errorf("指定偏好角色时仅偏好角色合格，实际 %d 人", len(got))
	}

	// 空偏好列表放行全部在岗角色
	demand.PreferredRoles = nil
	if got := filter.Eligible(pool, demand); len(got) != 2 {
		t.Errorf("无偏好时全部在岗员工合格，实际 %d 人", len(got))
	}
}
