// Package tagging generates unique sequential asset and component tags.
//
// Prefixes come from a TOML document resolved through a three-level
// hierarchy: department override, then company override, then global
// defaults, then built-in constants. Tags look like <prefix><separator><NNNNN>
// with the numeric suffix zero-padded to the configured digit count.
package tagging

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/castellan-dev/castellan/internal/models"
)

// Entity kinds a tag can be generated for
const (
	KindAsset     = "asset"
	KindComponent = "component"
)

const (
	tagScanLimit       = 100
	maxCandidateChecks = 500
)

// ResolvePrefix walks the override hierarchy for the given kind:
// department-level, then company-level, then [defaults], then the built-in
// constant. The department tier is only consulted when a company code is
// known, since department overrides nest under their company.
func ResolvePrefix(kind, companyCode, departmentName string) string {
	doc := loadConfig()

	if companyCode != "" {
		company := subTable(subTable(doc, "companies"), companyCode)
		if departmentName != "" {
			dept := subTable(subTable(company, "departments"), departmentName)
			if p, ok := tableString(dept, kind); ok {
				return p
			}
		}
		if p, ok := tableString(company, kind); ok {
			return p
		}
	}

	if p, ok := tableString(subTable(doc, "defaults"), kind); ok {
		return p
	}
	if p, ok := fallbackDefaults[kind]; ok {
		return p
	}
	return fallbackPrefix
}

// GenerateAssetTag returns the next free asset tag for the given company and
// department context. Either may be nil.
func GenerateAssetTag(db *gorm.DB, company *models.Company, department *models.Department) string {
	return generateTag(db, KindAsset, &models.Asset{}, "asset_tag", codeOf(company), nameOf(department))
}

// GenerateComponentTag returns the next free component tag for the given
// company and department context. Either may be nil.
func GenerateComponentTag(db *gorm.DB, company *models.Company, department *models.Department) string {
	return generateTag(db, KindComponent, &models.Component{}, "component_tag", codeOf(company), nameOf(department))
}

// GenerateAssetTagFor derives the prefix context from the asset itself: the
// company from its company reference, the department via the assigned
// employee. Missing links simply skip their override tier.
func GenerateAssetTagFor(db *gorm.DB, asset *models.Asset) string {
	companyCode, departmentName := assetContext(db, asset)
	return generateTag(db, KindAsset, &models.Asset{}, "asset_tag", companyCode, departmentName)
}

// GenerateComponentTagFor derives the prefix context transitively through the
// component's parent asset.
func GenerateComponentTagFor(db *gorm.DB, component *models.Component) string {
	var companyCode, departmentName string
	parent := component.ParentAsset
	if parent == nil && component.ParentAssetID != nil {
		var a models.Asset
		if err := db.First(&a, *component.ParentAssetID).Error; err == nil {
			parent = &a
		}
	}
	if parent != nil {
		companyCode, departmentName = assetContext(db, parent)
	}
	return generateTag(db, KindComponent, &models.Component{}, "component_tag", companyCode, departmentName)
}

func assetContext(db *gorm.DB, asset *models.Asset) (companyCode, departmentName string) {
	if asset.Company != nil {
		companyCode = asset.Company.Code
	} else if asset.CompanyID != nil {
		var c models.Company
		if err := db.First(&c, *asset.CompanyID).Error; err == nil {
			companyCode = c.Code
		}
	}

	employee := asset.AssignedTo
	if employee == nil && asset.AssignedToID != nil {
		var e models.Employee
		if err := db.First(&e, *asset.AssignedToID).Error; err == nil {
			employee = &e
		}
	}
	if employee != nil {
		if employee.Department != nil {
			departmentName = employee.Department.Name
		} else if employee.DepartmentID != nil {
			var d models.Department
			if err := db.First(&d, *employee.DepartmentID).Error; err == nil {
				departmentName = d.Name
			}
		}
	}
	return companyCode, departmentName
}

// generateTag scans the most recent existing tags under the resolved prefix,
// takes the highest numeric suffix, and probes forward until it finds an
// unused candidate. On exhaustion it falls back to a timestamp suffix so tag
// generation never fails outright.
func generateTag(db *gorm.DB, kind string, model any, column, companyCode, departmentName string) string {
	prefix := ResolvePrefix(kind, companyCode, departmentName)
	digits, separator := Settings()
	base := prefix + separator

	var existing []string
	err := db.Model(model).
		Where(column+" LIKE ?", base+"%").
		Order(column + " DESC").
		Limit(tagScanLimit).
		Pluck(column, &existing).Error
	if err != nil {
		slog.Warn("tagging: scan for existing tags failed", "kind", kind, "prefix", base, "error", err)
	}

	maxSeq := 0
	for _, tag := range existing {
		if len(tag) <= len(base) {
			continue
		}
		if n, parseErr := strconv.Atoi(tag[len(base):]); parseErr == nil && n > maxSeq {
			maxSeq = n
		}
	}

	for attempt := 1; attempt <= maxCandidateChecks; attempt++ {
		candidate := fmt.Sprintf("%s%0*d", base, digits, maxSeq+attempt)
		var count int64
		if err := db.Model(model).Where(column+" = ?", candidate).Count(&count).Error; err != nil {
			slog.Warn("tagging: uniqueness check failed", "candidate", candidate, "error", err)
			continue
		}
		if count == 0 {
			return candidate
		}
	}

	fallback := fmt.Sprintf("%s%d", base, time.Now().Unix())
	slog.Warn("tagging: candidate budget exhausted, using timestamp fallback",
		"kind", kind, "prefix", base, "tag", fallback)
	return fallback
}

func codeOf(c *models.Company) string {
	if c == nil {
		return ""
	}
	return c.Code
}

func nameOf(d *models.Department) string {
	if d == nil {
		return ""
	}
	return d.Name
}
