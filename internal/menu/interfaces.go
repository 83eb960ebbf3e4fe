package menu

import "campusreg/internal/registry"

//go:generate mockgen -source interfaces.go -destination mocks.go -package menu

type snapshotStore interface {
	registry.Store
}
