package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdullahilyas48/ConvoHub/internal/api"
)

func reviewCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "professor reviews",
	}
	cmd.AddCommand(reviewTeachersCmd(a), reviewListCmd(a), reviewAddCmd(a))
	return cmd
}

func reviewTeachersCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "teachers",
		Short: "list reviewable professors and their courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := (*a).authedClient()
			if err != nil {
				return err
			}
			teachers, err := client.ListTeachers(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range teachers {
				fmt.Printf("#%d %s\n", t.ID, t.Name)
				for _, c := range t.Courses {
					fmt.Printf("    #%d %s\n", c.ID, c.Name)
				}
			}
			return nil
		},
	}
}

func reviewListCmd(a **app) *cobra.Command {
	var teacherID, courseID int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list reviews for a teacher and course",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := (*a).authedClient()
			if err != nil {
				return err
			}
			reviews, err := client.ListReviews(cmd.Context(), teacherID, courseID)
			if err != nil {
				return err
			}
			if len(reviews) == 0 {
				fmt.Println("no reviews yet")
				return nil
			}
			for _, rv := range reviews {
				fmt.Printf("teaching %d/5, marking %d/5", rv.TeachingStyle, rv.Marking)
				if rv.AdditionalRemarks != "" {
					fmt.Printf(" — %s", rv.AdditionalRemarks)
				}
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&teacherID, "teacher", 0, "teacher id")
	cmd.Flags().Int64Var(&courseID, "course", 0, "course id")
	_ = cmd.MarkFlagRequired("teacher")
	_ = cmd.MarkFlagRequired("course")
	return cmd
}

func reviewAddCmd(a **app) *cobra.Command {
	var req api.SubmitReviewRequest
	cmd := &cobra.Command{
		Use:   "add",
		Short: "submit a review (one per teacher+course)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := (*a).authedClient()
			if err != nil {
				return err
			}
			if err := client.SubmitReview(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Println("review submitted")
			return nil
		},
	}
	cmd.Flags().Int64Var(&req.TeacherID, "teacher", 0, "teacher id")
	cmd.Flags().Int64Var(&req.CourseID, "course", 0, "course id")
	cmd.Flags().IntVar(&req.TeachingStyle, "style", 0, "teaching style rating 1-5")
	cmd.Flags().IntVar(&req.Marking, "marking", 0, "marking rating 1-5")
	cmd.Flags().StringVar(&req.AdditionalRemarks, "remarks", "", "free-form remarks")
	_ = cmd.MarkFlagRequired("teacher")
	_ = cmd.MarkFlagRequired("course")
	_ = cmd.MarkFlagRequired("style")
	_ = cmd.MarkFlagRequired("marking")
	return cmd
}
