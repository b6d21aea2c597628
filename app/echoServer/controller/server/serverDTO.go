package server

type ProvisionReq struct {
	OrderID   string  `json:"order_id" validate:"required"`
	IPAddress string  `json:"ip_address" validate:"required,ip"`
	Hostname  string  `json:"hostname" validate:"required"`
	Username  string  `json:"username" validate:"required"`
	Password  string  `json:"password" validate:"required"`
	SSHPort   int     `json:"ssh_port" validate:"omitempty,gt=0,lte=65535"`
	PanelURL  *string `json:"panel_url"`
}

type UpdateServerReq struct {
	IPAddress *string `json:"ip_address" validate:"omitempty,ip"`
	Hostname  *string `json:"hostname"`
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	Status    *string `json:"status" validate:"omitempty,oneof=active suspended"`
	PanelURL  *string `json:"panel_url"`
}
