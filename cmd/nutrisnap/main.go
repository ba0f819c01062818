package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"nutrisnap/internal/app"
	"nutrisnap/internal/config"
	"nutrisnap/internal/database"
	"nutrisnap/internal/goal"
	"nutrisnap/internal/llm"
	"nutrisnap/internal/meal"
	"nutrisnap/internal/metrics"
	"nutrisnap/internal/storage"
	"nutrisnap/internal/trends"
)

const dateLayout = "2006-01-02"

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	slots := database.NewSlotStore(db)
	meals := meal.NewStore(slots)
	goals := goal.NewStore(slots)
	metricsStore := metrics.NewStore(db.SQL)

	meals.OnChanged(func() {
		log.Println("Meal collection changed, dependent views should re-read the store")
	})

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "log":
		logCmd := flag.NewFlagSet("log", flag.ExitOnError)
		desc := logCmd.String("desc", "", "Food description")
		qty := logCmd.String("qty", "1 serving", "Estimated quantity")
		logCmd.Parse(os.Args[2:])
		if *desc == "" {
			log.Fatal("A food description is required (-desc)")
		}

		application := newAppWithAnalyzer(ctx, cfg, meals, goals, metricsStore)
		rec, err := application.LogText(ctx, *desc, *qty)
		if err != nil {
			log.Fatalf("Failed to log meal: %v", err)
		}
		printMeal(rec)

	case "log-image":
		imgCmd := flag.NewFlagSet("log-image", flag.ExitOnError)
		image := imgCmd.String("image", "", "Path to a JPEG photo of the meal")
		hint := imgCmd.String("hint", "", "Optional correction about the items in the photo")
		imgCmd.Parse(os.Args[2:])
		if *image == "" {
			log.Fatal("An image path is required (-image)")
		}

		application := newAppWithAnalyzer(ctx, cfg, meals, goals, metricsStore)
		rec, err := application.LogImage(ctx, *image, *hint)
		if err != nil {
			log.Fatalf("Failed to log meal: %v", err)
		}
		printMeal(rec)

	case "list":
		for _, rec := range meals.All() {
			printMeal(rec)
		}

	case "day":
		dayCmd := flag.NewFlagSet("day", flag.ExitOnError)
		date := dayCmd.String("date", time.Now().Format(dateLayout), "Calendar day (yyyy-mm-dd)")
		dayCmd.Parse(os.Args[2:])

		at, err := time.ParseInLocation(dateLayout, *date, time.Local)
		if err != nil {
			log.Fatalf("Invalid date %q: %v", *date, err)
		}
		for _, rec := range meals.ByDate(at) {
			printMeal(rec)
		}

	case "delete":
		delCmd := flag.NewFlagSet("delete", flag.ExitOnError)
		id := delCmd.String("id", "", "Meal id to delete")
		delCmd.Parse(os.Args[2:])
		if *id == "" {
			log.Fatal("A meal id is required (-id)")
		}
		if err := meals.Delete(*id); err != nil {
			log.Fatalf("Failed to delete meal: %v", err)
		}

	case "export":
		exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
		out := exportCmd.String("out", "", "Output file (default stdout)")
		exportCmd.Parse(os.Args[2:])

		application := app.NewApp(meals, goals, nil)
		text := application.ExportCSV()
		if *out == "" {
			fmt.Print(text)
			break
		}
		if err := os.WriteFile(*out, []byte(text), 0644); err != nil {
			log.Fatalf("Failed to write export: %v", err)
		}
		fmt.Printf("Exported %d meals to %s\n", len(meals.All()), *out)

	case "import":
		importCmd := flag.NewFlagSet("import", flag.ExitOnError)
		file := importCmd.String("file", "", "CSV file to import")
		importCmd.Parse(os.Args[2:])
		if *file == "" {
			log.Fatal("An input file is required (-file)")
		}

		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("Failed to read import file: %v", err)
		}

		application := app.NewApp(meals, goals, nil)
		res := application.ImportCSV(string(data))
		if !res.Success {
			log.Fatalf("Import failed: %s", res.Error)
		}
		fmt.Printf("Imported %d meals (%d total).\n", res.Imported, res.Total)

	case "trends":
		trendsCmd := flag.NewFlagSet("trends", flag.ExitOnError)
		start := trendsCmd.String("start", time.Now().AddDate(0, 0, -6).Format(dateLayout), "Interval start (yyyy-mm-dd)")
		end := trendsCmd.String("end", time.Now().Format(dateLayout), "Interval end (yyyy-mm-dd)")
		nutrient := trendsCmd.String("nutrient", "", "Optional nutrient key for a single-nutrient trend")
		trendsCmd.Parse(os.Args[2:])

		from, to := parseInterval(*start, *end)
		agg := trends.NewAggregator(meals)

		if *nutrient != "" {
			for _, p := range agg.NutrientTrend(from, to, *nutrient) {
				fmt.Printf("%s  %.1f\n", p.Date, p.Value)
			}
			break
		}

		for _, d := range agg.DailyTotals(from, to) {
			fmt.Printf("%s  %6.0f kcal  %5.1fg protein  %5.1fg carbs  %5.1fg fat\n",
				d.Date, d.Calories, d.Protein, d.Carbs, d.Fat)
		}
		split := agg.MacroAverages(from, to)
		fmt.Printf("Macro split: %.1f%% protein / %.1f%% carbs / %.1f%% fat\n",
			split.ProteinPct, split.CarbsPct, split.FatPct)

	case "heatmap":
		heatCmd := flag.NewFlagSet("heatmap", flag.ExitOnError)
		metric := heatCmd.String("metric", "calories", "Metric: calories, protein, carbs or fat")
		heatCmd.Parse(os.Args[2:])

		agg := trends.NewAggregator(meals)
		for _, cell := range agg.HeatmapData(*metric) {
			if cell.Count == 0 {
				continue
			}
			fmt.Printf("%s  %6.0f  %s  (%d meals)\n",
				cell.Date, cell.Count, trends.MetricColor(cell.Count, *metric), len(cell.Details.Meals))
		}

	case "goals":
		runGoals(goals, os.Args[2:])

	case "migrate-storage":
		files, err := storage.NewFileStore(cfg.StoragePath)
		if err != nil {
			log.Fatalf("Failed to open file storage: %v", err)
		}
		moved, err := migrateStorage(files, slots)
		if err != nil {
			log.Fatalf("Storage migration failed: %v", err)
		}
		fmt.Printf("Migrated %d slots into the database.\n", moved)

	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := metricsStore.Cleanup(*days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)

	case "usage":
		usageCmd := flag.NewFlagSet("usage", flag.ExitOnError)
		days := usageCmd.Int("days", 7, "Show usage for the last N days")
		usageCmd.Parse(os.Args[2:])

		rows, err := metricsStore.GetDailyUsage(*days)
		if err != nil {
			log.Fatalf("Failed to read usage: %v", err)
		}
		for _, u := range rows {
			fmt.Printf("%s  %d calls  %d prompt tokens  %d completion tokens\n",
				u.Date, u.TotalExecution, u.TotalPrompt, u.TotalCompletion)
		}

	case "health":
		h := metrics.GetSysHealth(cfg.StoragePath)
		fmt.Printf("Alloc: %d MB  TotalAlloc: %d MB  Sys: %d MB  GC runs: %d\n",
			h.AllocMB, h.TotalAllocMB, h.SysMB, h.NumGC)
		fmt.Printf("Goroutines: %d  Data on disk: %s\n", h.Goroutines, h.DataDiskSize)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func newAppWithAnalyzer(ctx context.Context, cfg *config.Config, meals *meal.Store, goals *goal.Store, metricsStore *metrics.Store) *app.App {
	if err := cfg.RequireGemini(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	analyzer, err := llm.NewGeminiAnalyzer(ctx, cfg.GeminiAPIKey, metricsStore)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	return app.NewApp(meals, goals, analyzer)
}

func runGoals(goals *goal.Store, args []string) {
	if len(args) == 0 {
		printGoalsUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "show":
		for key, value := range goals.Get() {
			fmt.Printf("%s = %g\n", key, value)
		}
	case "set":
		partial := goal.DailyGoals{}
		for _, pair := range args[1:] {
			key, raw, ok := strings.Cut(pair, "=")
			if !ok {
				log.Fatalf("Invalid goal %q, expected key=value", pair)
			}
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				log.Fatalf("Invalid goal value %q: %v", raw, err)
			}
			partial[key] = value
		}
		if len(partial) == 0 {
			log.Fatal("At least one key=value pair is required")
		}
		if err := goals.Set(partial); err != nil {
			log.Fatalf("Failed to set goals: %v", err)
		}
	case "remove":
		if len(args) < 2 {
			log.Fatal("A goal key is required")
		}
		if err := goals.Remove(args[1]); err != nil {
			log.Fatalf("Failed to remove goal: %v", err)
		}
	default:
		printGoalsUsage()
		os.Exit(1)
	}
}

// migrateStorage copies every slot from the file store into the database.
func migrateStorage(files *storage.FileStore, slots *database.SlotStore) (int, error) {
	keys, err := files.Keys()
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, key := range keys {
		data, err := files.Read(key)
		if err != nil {
			return moved, fmt.Errorf("failed to read slot %s: %w", key, err)
		}
		if err := slots.Write(key, data); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

func printMeal(rec meal.Record) {
	n := rec.Analysis.Nutrition
	fmt.Printf("%s  %s  [%s]  %s (%s)  %.0f kcal  %.1fg protein\n",
		rec.ID, rec.Time().Format("2006-01-02 3:04 PM"), rec.Type,
		rec.Analysis.FoodName, rec.Analysis.Quantity,
		n.Calories.Value, n.Protein.Value)
}

func parseInterval(start, end string) (time.Time, time.Time) {
	from, err := time.ParseInLocation(dateLayout, start, time.Local)
	if err != nil {
		log.Fatalf("Invalid start date %q: %v", start, err)
	}
	to, err := time.ParseInLocation(dateLayout, end, time.Local)
	if err != nil {
		log.Fatalf("Invalid end date %q: %v", end, err)
	}
	if to.Before(from) {
		log.Fatalf("End date %s is before start date %s", end, start)
	}
	return from, to
}

func printUsage() {
	fmt.Println("Usage: nutrisnap <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  log              Analyze a described meal and save it")
	fmt.Println("  log-image        Analyze a meal photo and save it")
	fmt.Println("  list             Show every logged meal")
	fmt.Println("  day              Show the meals of one calendar day")
	fmt.Println("  delete           Delete a meal by id")
	fmt.Println("  export           Export all meals as CSV")
	fmt.Println("  import           Import meals from a CSV file")
	fmt.Println("  trends           Daily totals and macro split over an interval")
	fmt.Println("  heatmap          Activity calendar for the last six months")
	fmt.Println("  goals            Show, set or remove daily nutrient goals")
	fmt.Println("  migrate-storage  Move file-based slots into the database")
	fmt.Println("  metrics-cleanup  Remove old metric records")
	fmt.Println("  usage            Show analysis service token usage per day")
	fmt.Println("  health           Show process and storage health")
}

func printGoalsUsage() {
	fmt.Println("Usage: nutrisnap goals <show|set|remove> [arguments]")
	fmt.Println("\n  show                 Print all configured goals")
	fmt.Println("  set key=value ...    Merge goal values (e.g. calories=2000 protein=120)")
	fmt.Println("  remove key           Remove a single goal")
}
