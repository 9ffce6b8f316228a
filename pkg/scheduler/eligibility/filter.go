// Package eligibility 提供候选人资格过滤
package eligibility

import (
	"github.com/yipai/yipai/pkg/model"
)

// Filter 资格过滤器
type Filter struct{}

// NewFilter 创建资格过滤器
func NewFilter() *Filter {
	return &Filter{}
}

// Eligible 根据需求过滤员工池，返回合格候选人
// 规则：必须在岗；关键单元（重症/急诊）无论偏好如何仅限临床角色；
// 需求指定偏好角色时仅偏好角色合格（未指定则全部在岗角色合格）
func (f *Filter) Eligible(pool []*model.Employee, demand *model.ShiftDemand) []*model.Employee {
	var candidates []*model.Employee
	for _, emp := range pool {
		if !emp.IsActive() {
			continue
		}
		if demand.Location.IsCritical() && !emp.IsClinical() {
			continue
		}
		if !demand.PrefersRole(emp.Role) {
			continue
		}
		candidates = append(candidates, emp)
	}
	return candidates
}
