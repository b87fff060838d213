package rolegraph

// Core permission identifiers. Plugins register additional permissions
// through the Catalog; the "Own" suffix marks ownership-scoped variants
// checked together with an owner comparison.
const (
	PermUserRead   Permission = "userRead"
	PermUserCreate Permission = "userCreate"
	PermUserUpdate Permission = "userUpdate"
	PermUserDelete Permission = "userDelete"

	PermArticleRead      Permission = "articleRead"
	PermArticleCreate    Permission = "articleCreate"
	PermArticleUpdate    Permission = "articleUpdate"
	PermArticleUpdateOwn Permission = "articleUpdateOwn"
	PermArticleDelete    Permission = "articleDelete"
	PermArticleDeleteOwn Permission = "articleDeleteOwn"
	PermArticlePublish   Permission = "articlePublish"

	PermEventRead      Permission = "eventRead"
	PermEventCreate    Permission = "eventCreate"
	PermEventUpdate    Permission = "eventUpdate"
	PermEventUpdateOwn Permission = "eventUpdateOwn"
	PermEventDelete    Permission = "eventDelete"
	PermEventDeleteOwn Permission = "eventDeleteOwn"

	PermTaxRead   Permission = "taxRead"
	PermTaxUpdate Permission = "taxUpdate"

	PermMediaUpload Permission = "mediaUpload"
	PermMediaDelete Permission = "mediaDelete"

	PermSettingRead   Permission = "settingRead"
	PermSettingUpdate Permission = "settingUpdate"

	PermPreview    Permission = "preview"
	PermRefresh    Permission = "refresh"
	PermAPIRequest Permission = "apiRequest"
)

// Built-in role names.
const (
	RoleAdministrator = "administrator"
	RoleEditor        = "editor"
	RoleContributor   = "contributor"
	RoleUser          = "user"
	RolePreview       = "preview"
	RoleRefresh       = "refresh"
	RoleAPI           = "api"
)

// Definition is a declarative (role, permissions, extends) triple, the unit
// of data-driven registration used by defaults, plugins, and role files.
type Definition struct {
	Name        string       `json:"name" yaml:"name"`
	Permissions []Permission `json:"permissions,omitempty" yaml:"permissions,omitempty"`
	Extends     []string     `json:"extends,omitempty" yaml:"extends,omitempty"`
}

// DefaultPermissions returns the core permission catalog.
func DefaultPermissions() []Permission {
	return []Permission{
		PermUserRead, PermUserCreate, PermUserUpdate, PermUserDelete,
		PermArticleRead, PermArticleCreate, PermArticleUpdate, PermArticleUpdateOwn,
		PermArticleDelete, PermArticleDeleteOwn, PermArticlePublish,
		PermEventRead, PermEventCreate, PermEventUpdate, PermEventUpdateOwn,
		PermEventDelete, PermEventDeleteOwn,
		PermTaxRead, PermTaxUpdate,
		PermMediaUpload, PermMediaDelete,
		PermSettingRead, PermSettingUpdate,
		PermPreview, PermRefresh, PermAPIRequest,
	}
}

// DefaultRoles returns the built-in role hierarchy:
//
//	administrator -> editor -> contributor -> user -> {preview, refresh, api}
//
// Each role carries only the permissions it adds over the roles it extends.
func DefaultRoles() []Definition {
	return []Definition{
		{
			Name:        RolePreview,
			Permissions: []Permission{PermPreview},
		},
		{
			Name:        RoleRefresh,
			Permissions: []Permission{PermRefresh},
		},
		{
			Name:        RoleAPI,
			Permissions: []Permission{PermAPIRequest},
		},
		{
			Name:        RoleUser,
			Permissions: []Permission{PermArticleRead, PermEventRead, PermTaxRead},
			Extends:     []string{RolePreview, RoleRefresh, RoleAPI},
		},
		{
			Name: RoleContributor,
			Permissions: []Permission{
				PermArticleCreate, PermArticleUpdateOwn, PermArticleDeleteOwn,
				PermEventCreate, PermEventUpdateOwn, PermEventDeleteOwn,
				PermMediaUpload,
			},
			Extends: []string{RoleUser},
		},
		{
			Name: RoleEditor,
			Permissions: []Permission{
				PermArticleUpdate, PermArticleDelete, PermArticlePublish,
				PermEventUpdate, PermEventDelete,
				PermTaxUpdate, PermMediaDelete, PermUserRead,
			},
			Extends: []string{RoleContributor},
		},
		{
			Name: RoleAdministrator,
			Permissions: []Permission{
				PermUserCreate, PermUserUpdate, PermUserDelete,
				PermSettingRead, PermSettingUpdate,
			},
			Extends: []string{RoleEditor},
		},
	}
}

// RegisterDefinitions applies defs to the graph, all Add calls before all
// Extend calls so the outcome does not depend on slice order.
func RegisterDefinitions(g *Graph, defs ...Definition) {
	for _, def := range defs {
		g.Add(def.Name, def.Permissions...)
	}
	for _, def := range defs {
		if len(def.Extends) > 0 {
			g.Extend(def.Name, def.Extends...)
		}
	}
}

// RegisterDefaults installs the core catalog and built-in role hierarchy.
// The catalog may be nil when validation against it is not wanted.
func RegisterDefaults(g *Graph, c *Catalog) {
	if c != nil {
		c.Register(DefaultPermissions()...)
	}
	RegisterDefinitions(g, DefaultRoles()...)
}
