package authz

import "os-sistema/internal/entities"

// Operações nomeadas do sistema. A política inteira mora na tabela abaixo em
// vez de comparações de papel espalhadas pelos handlers.
const (
	OrdersCreate      = "os:create"
	OrdersView        = "os:view"
	OrdersAssign      = "os:assumir"
	OrdersComplete    = "os:finalizar"
	OrdersForceUpdate = "os:force_update"
	OrdersDelete      = "os:delete"

	UsersManage = "usuarios:manage"

	ReportsView = "relatorios:view"
)

var policy = map[entities.Role]map[string]bool{
	entities.RoleAdmin: {
		OrdersCreate:      true,
		OrdersView:        true,
		OrdersAssign:      true,
		OrdersComplete:    true,
		OrdersForceUpdate: true,
		OrdersDelete:      true,
		UsersManage:       true,
		ReportsView:       true,
	},
	entities.RoleMonitoramento: {
		OrdersCreate: true,
		OrdersView:   true,
		ReportsView:  true,
	},
	entities.RoleExecucao: {
		OrdersCreate:   true,
		OrdersView:     true,
		OrdersAssign:   true,
		OrdersComplete: true,
		ReportsView:    true,
	},
	entities.RoleCampo: {
		OrdersCreate: true,
		OrdersView:   true,
		ReportsView:  true,
	},
}

// Can responde se o papel pode executar a operação.
func Can(role entities.Role, operation string) bool {
	ops, ok := policy[role]
	if !ok {
		return false
	}
	return ops[operation]
}

// CanViewOrder aplica a regra de visibilidade: execução enxerga apenas O.S
// aguardando e as próprias (qualquer estado); os demais papéis veem tudo.
func CanViewOrder(actor *entities.User, order *entities.ServiceOrder) bool {
	if actor.Role != entities.RoleExecucao {
		return true
	}
	if order.Status == entities.StatusAguardando {
		return true
	}
	return order.TecnicoExecutorID != nil && *order.TecnicoExecutorID == actor.ID
}

// CanCompleteOrder: admin sempre; execução apenas na O.S atribuída a si.
func CanCompleteOrder(actor *entities.User, order *entities.ServiceOrder) bool {
	if actor.Role == entities.RoleAdmin {
		return true
	}
	if actor.Role != entities.RoleExecucao {
		return false
	}
	return order.TecnicoExecutorID != nil && *order.TecnicoExecutorID == actor.ID
}

// CanBeExecutor restringe quem pode assumir uma O.S.
func CanBeExecutor(role entities.Role) bool {
	return role == entities.RoleExecucao || role == entities.RoleAdmin
}
