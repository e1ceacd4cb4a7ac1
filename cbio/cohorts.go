package cbio

import (
	"errors"
	"fmt"
)

// ErrUnknownCohort is returned when a cohort name is not in Cohorts.
var ErrUnknownCohort = errors.New("unknown cohort")

// Cohort is a named cancer study dataset.
type Cohort struct {
	Name               string
	MolecularProfileID string
	SampleListID       string
}

// Cohorts lists the TCGA cohorts offered for selection, in display order.
var Cohorts = []Cohort{
	tcga("Adrenocortical Carcinoma", "acc"),
	tcga("Bladder Urothelial Carcinoma", "blca"),
	tcga("Breast Cancer", "brca"),
	tcga("Cervical Cancer", "cesc"),
	tcga("Colorectal Cancer", "coad"),
	tcga("Esophageal Cancer", "esca"),
	tcga("Glioblastoma Multiforme", "gbm"),
	tcga("Head and Neck Squamous Cell Carcinoma", "hnsc"),
	tcga("Kidney Renal Clear Cell Carcinoma", "kirc"),
	tcga("Kidney Renal Papillary Cell Carcinoma", "kirp"),
	tcga("Liver Hepatocellular Carcinoma", "lihc"),
	tcga("Lung Adenocarcinoma", "luad"),
	tcga("Lung Squamous Cell Carcinoma", "lusc"),
	tcga("Ovarian Cancer", "ov"),
	tcga("Pancreatic Adenocarcinoma", "paad"),
	tcga("Prostate Adenocarcinoma", "prad"),
	tcga("Sarcoma", "sarc"),
	tcga("Skin Cutaneous Melanoma", "skcm"),
	tcga("Stomach Adenocarcinoma", "stad"),
	tcga("Testicular Germ Cell Tumors", "tgct"),
	tcga("Thymoma", "thym"),
	tcga("Thyroid Carcinoma", "thca"),
	tcga("Uterine Carcinosarcoma", "ucs"),
	tcga("Uterine Corpus Endometrial Carcinoma", "ucec"),
}

func tcga(name, study string) Cohort {
	return Cohort{
		Name:               name,
		MolecularProfileID: study + "_tcga_mutations",
		SampleListID:       study + "_tcga_all",
	}
}

// LookupCohort finds a cohort by its display name.
func LookupCohort(name string) (Cohort, error) {
	for _, c := range Cohorts {
		if c.Name == name {
			return c, nil
		}
	}
	return Cohort{}, fmt.Errorf("%w: '%s'", ErrUnknownCohort, name)
}
