package domain

// OperationType distinguishes normal piecework from defect rework.
// The wire values are fixed by the backend contract.
type OperationType string

const (
	OperationEarning OperationType = "EARNING"
	OperationPenalty OperationType = "PENALTY"
)

// Printable reports whether a completed operation gets a printed label.
// Defect rework is recorded but never printed.
func (t OperationType) Printable() bool {
	return t == OperationEarning
}

// Employee is one crew member credited on a work record.
type Employee struct {
	Username  string `json:"username"`
	Workplace string `json:"workplace"`
}

// WorkRecord is the payload reported to the backend when a piece of work
// completes. It carries the whole crew, not just the initiating operator.
type WorkRecord struct {
	OrderNumber   string        `json:"orderNumber"`
	OperationType OperationType `json:"operationType"`
	Employees     []Employee    `json:"employees"`
}

// Role identifies a workstation screen.
type Role string

const (
	RoleNone            Role = ""
	RoleSaw             Role = "saw"
	RoleEdgeBander      Role = "edge-bander"
	RoleCNC             Role = "cnc"
	RolePacker          Role = "packer"
	RoleFurniturePacker Role = "furniture-packer"
)
