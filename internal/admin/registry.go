package admin

// Operation is one action the admin surface exposes for an entity.
type Operation struct {
	Name   string `json:"name"`
	Method string `json:"method"`
	Path   string `json:"path"`
}

// Entity describes a managed record type and where to reach it.
type Entity struct {
	Key        string      `json:"key"`
	Title      string      `json:"title"`
	Group      string      `json:"group"`
	Operations []Operation `json:"operations"`
}

type Report struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

type Registry struct {
	SiteHeader string   `json:"site_header"`
	Entities   []Entity `json:"entities"`
	Reports    []Report `json:"reports"`
}

const SiteHeader = "Seneca Partners CMS"

func crud(base string, ops ...string) []Operation {
	all := map[string]Operation{
		"list":   {Name: "list", Method: "GET", Path: base},
		"get":    {Name: "get", Method: "GET", Path: base + "/{id}"},
		"create": {Name: "create", Method: "POST", Path: base},
		"update": {Name: "update", Method: "PUT", Path: base + "/{id}"},
		"patch":  {Name: "update", Method: "PATCH", Path: base + "/{id}"},
		"delete": {Name: "delete", Method: "DELETE", Path: base + "/{id}"},
	}
	out := make([]Operation, 0, len(ops))
	for _, op := range ops {
		out = append(out, all[op])
	}
	return out
}

// public lists the unauthenticated read operations under /api.
func public(name string) []Operation {
	return crud("/api/"+name, "list", "get")
}

// Default is the fixed registry served on the admin index.
func Default() Registry {
	return Registry{
		SiteHeader: SiteHeader,
		Entities: []Entity{
			{Key: "photos", Title: "Фото", Group: "Медиа",
				Operations: append(public("photos"), crud("/admin/api/photos", "create", "update", "delete")...)},
			{Key: "videos", Title: "Видео", Group: "Медиа",
				Operations: append(public("videos"), crud("/admin/api/videos", "create", "update", "delete")...)},
			{Key: "applications", Title: "Заявки", Group: "Продажи",
				Operations: append(crud("/admin/api/applications", "list", "get", "patch", "delete"),
					Operation{Name: "export", Method: "POST", Path: "/admin/applications/export"})},
			{Key: "blocks", Title: "Блоки", Group: "Объекты",
				Operations: append(public("blocks"), crud("/admin/api/blocks", "create", "update", "delete")...)},
			{Key: "floors", Title: "Этажи", Group: "Объекты",
				Operations: append(public("floors"), crud("/admin/api/floors", "create", "update", "delete")...)},
			{Key: "plans", Title: "Планировки", Group: "Объекты",
				Operations: append(append(public("plans"), crud("/admin/api/plans", "create", "update", "delete")...),
					Operation{Name: "upload_drawing", Method: "PUT", Path: "/admin/api/plans/{id}/drawing"})},
			{Key: "proposal_templates", Title: "Шаблоны предложений", Group: "Продажи",
				Operations: crud("/admin/api/proposal-templates", "list", "get", "create", "delete")},
			{Key: "proposals", Title: "Коммерческие предложения", Group: "Продажи",
				Operations: append(crud("/admin/api/proposals", "list", "get", "create", "update", "delete"),
					Operation{Name: "preview", Method: "GET", Path: "/admin/api/proposals/{id}/preview"},
					Operation{Name: "generate", Method: "POST", Path: "/admin/proposals/{id}/generate"},
					Operation{Name: "download", Method: "GET", Path: "/admin/proposals/{id}/pdf"})},
			{Key: "audit_logs", Title: "Журнал действий", Group: "Система",
				Operations: crud("/admin/api/auditlogs", "list", "get")},
			{Key: "notifications", Title: "Уведомления", Group: "Система",
				Operations: crud("/admin/api/notifications", "list")},
		},
		Reports: []Report{
			{Title: "Целостность данных", Path: "/admin/reports/data-integrity"},
			{Title: "Битые ссылки", Path: "/admin/reports/dead-links"},
			{Title: "Воронка заявок", Path: "/admin/reports/applications-summary"},
		},
	}
}
